package fetcher

import (
	"umddining-backend/lib/restyutil"
	"umddining-backend/lib/telemetry"
)

var tracer = telemetry.Tracer("umddining.services.dining.fetcher")

var restyInstrumentOutput restyutil.InstrumentOutput

// SetRestyInstrumentOutput sets where http dumps of clients created
// after this call are written. nil disables them.
func SetRestyInstrumentOutput(output restyutil.InstrumentOutput) {
	restyInstrumentOutput = output
}
