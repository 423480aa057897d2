package extract

import (
	"context"
	"log/slog"
	"strings"
	"umddining-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

var strategyCounter, _ = meter.Int64Counter(
	"menu_extract_strategy",
	metric.WithDescription("menu pages extracted, by the strategy that read them"),
)

type menuPage struct {
	hallId string
	date   string
}

// a menuStrategy reads one page layout, ok is false when the page
// doesn't have the structure it expects.
type menuStrategy struct {
	name    string
	extract func(doc *goquery.Document, page menuPage) (items []Placement, ok bool)
}

// tried in order, the last one always applies.
var menuStrategies = []menuStrategy{
	{name: "tabbed", extract: extractTabbed},
	{name: "stations", extract: extractStations},
	{name: "flat", extract: extractFlat},
}

// ExtractMenu parses a menu page into the placements listed on it. A page
// with no food on it is not an error.
func ExtractMenu(ctx context.Context, html, hallId, date string) ([]Placement, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ParseError{Page: "menu", Err: err}
	}
	return ExtractMenuDocument(ctx, doc, hallId, date), nil
}

func ExtractMenuDocument(ctx context.Context, doc *goquery.Document, hallId, date string) []Placement {
	ctx, span := tracer.Start(ctx, "ExtractMenu")
	defer span.End()

	page := menuPage{hallId: hallId, date: date}
	for _, strategy := range menuStrategies {
		items, ok := strategy.extract(doc, page)
		if !ok {
			continue
		}

		span.SetAttributes(
			attribute.String("strategy", strategy.name),
			attribute.Int("items", len(items)),
		)
		strategyCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("strategy", strategy.name)))
		if strategy.name == "flat" && len(items) > 0 {
			slog.WarnContext(ctx, "menu page has no tab or station structure, fell back to flat link scan", "dining_hall_id", hallId, "date", date)
		}
		slog.DebugContext(ctx, "extracted menu", "strategy", strategy.name, "dining_hall_id", hallId, "date", date, "items", len(items))
		return items
	}

	span.SetStatus(codes.Error, "no menu strategy applied")
	return nil
}

// nav tab aria-controls -> meal period label
func mealPeriodLabels(doc *goquery.Document) map[string]string {
	labels := map[string]string{}
	doc.Find("ul.nav-tabs a[role=tab]").Each(func(_ int, tab *goquery.Selection) {
		paneId := strings.TrimSpace(tab.AttrOr("aria-controls", ""))
		label := htmlutil.SelectionText(tab)
		if paneId != "" && label != "" {
			labels[paneId] = label
		}
	})
	return labels
}

func stationName(card *goquery.Selection) string {
	title := htmlutil.SelectionText(card.Find("h5.card-title").First())
	if title != "" {
		return title
	}
	heading := htmlutil.SelectionText(card.Find("h1, h2, h3, h4, h5, h6").First())
	if heading != "" {
		return heading
	}
	return Unknown
}

func dietaryIcons(row *goquery.Selection) []string {
	icons := []string{}
	row.Find("img.nutri-icon").Each(func(_ int, img *goquery.Selection) {
		desc := strings.TrimSpace(img.AttrOr("alt", ""))
		if desc == "" {
			desc = strings.TrimSpace(img.AttrOr("title", ""))
		}
		if desc != "" {
			icons = append(icons, desc)
		}
	})
	return icons
}

// the anchor of a menu row that leads to its label page
func rowLabelLink(row *goquery.Selection) (*goquery.Selection, bool) {
	named := row.Find("a.menu-item-name").First()
	if named.Length() > 0 {
		return named, IsLabelLink(named.AttrOr("href", ""))
	}
	var found *goquery.Selection
	row.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if IsLabelLink(a.AttrOr("href", "")) {
			found = a
			return false
		}
		return true
	})
	return found, found != nil
}

func placementFromLink(link *goquery.Selection, page menuPage, mealPeriod, station string, icons []string) Placement {
	return Placement{
		Name:         htmlutil.SelectionText(link),
		DiningHallID: page.hallId,
		Date:         page.date,
		RecNum:       RecNumFromHref(link.AttrOr("href", "")),
		MealPeriod:   mealPeriod,
		Station:      station,
		DietaryIcons: icons,
	}
}

func extractRows(sel *goquery.Selection, page menuPage, mealPeriod, station string) []Placement {
	var items []Placement
	sel.Find("div.menu-item-row").Each(func(_ int, row *goquery.Selection) {
		link, ok := rowLabelLink(row)
		if !ok {
			return
		}
		items = append(items, placementFromLink(link, page, mealPeriod, station, dietaryIcons(row)))
	})
	return items
}

func extractCards(sel *goquery.Selection, page menuPage, mealPeriod string) []Placement {
	cards := sel.Find("div.card")
	if cards.Length() == 0 {
		return extractRows(sel, page, mealPeriod, Unknown)
	}
	var items []Placement
	cards.Each(func(_ int, card *goquery.Selection) {
		items = append(items, extractRows(card, page, mealPeriod, stationName(card))...)
	})
	return items
}

// tab panes per meal period, cards per station, rows per food.
func extractTabbed(doc *goquery.Document, page menuPage) ([]Placement, bool) {
	panes := doc.Find("div.tab-pane")
	if panes.Length() == 0 {
		return nil, false
	}

	labels := mealPeriodLabels(doc)
	items := []Placement{}
	panes.Each(func(_ int, pane *goquery.Selection) {
		mealPeriod, ok := labels[pane.AttrOr("id", "")]
		if !ok {
			mealPeriod = Unknown
		}
		items = append(items, extractCards(pane, page, mealPeriod)...)
	})
	return items, true
}

// station cards without any meal period tabs.
func extractStations(doc *goquery.Document, page menuPage) ([]Placement, bool) {
	cards := doc.Find("div.card")
	if cards.Length() == 0 {
		return nil, false
	}
	items := extractCards(doc.Selection, page, Unknown)
	if len(items) == 0 {
		return nil, false
	}
	return items, true
}

// every label link on the page, for layouts we don't otherwise recognize.
func extractFlat(doc *goquery.Document, page menuPage) ([]Placement, bool) {
	items := []Placement{}
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if !IsLabelLink(a.AttrOr("href", "")) {
			return
		}
		items = append(items, placementFromLink(a, page, Unknown, Unknown, []string{}))
	})
	return items, true
}
