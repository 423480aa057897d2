package extract

import (
	"fmt"
	"umddining-backend/lib/telemetry"
)

var tracer = telemetry.Tracer("umddining.services.dining.extract")
var meter = telemetry.Meter("umddining.services.dining.extract")

// Unknown fills in a meal period or station the page didn't provide.
const Unknown = "Unknown"

// Placement is one food listed on a menu page.
type Placement struct {
	Name         string   `json:"name"`
	DiningHallID string   `json:"dining_hall_id"`
	Date         string   `json:"date"`
	RecNum       string   `json:"rec_num"`
	MealPeriod   string   `json:"meal_period"`
	Station      string   `json:"station"`
	DietaryIcons []string `json:"dietary_icons"`
}

// Nutrition is everything read off a food label page.
type Nutrition struct {
	Name        string
	Facts       map[string]string
	Ingredients string
	Allergens   string
}

// Empty reports whether the page had none of the label elements, which
// is what the site serves for an unknown RecNumAndPort.
func (n Nutrition) Empty() bool {
	return n.Name == "" &&
		len(n.Facts) == 0 &&
		n.Ingredients == "" &&
		n.Allergens == ""
}

// ParseError means a page could not be read as html at all, a missing
// element is never a ParseError.
type ParseError struct {
	Page string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s page: %s", e.Page, e.Err.Error())
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
