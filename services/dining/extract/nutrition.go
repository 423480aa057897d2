package extract

import (
	"context"
	"regexp"
	"strings"
	"umddining-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
)

const (
	servingSizeFact = "Serving Size"
	caloriesFact    = "Calories"
)

var servingSizePrefix = regexp.MustCompile(`(?i)^\s*serving\s+size\s*:?\s*`)

// ExtractNutrition parses a food label page. Every element is optional,
// a missing one just leaves its field empty.
func ExtractNutrition(ctx context.Context, html string) (Nutrition, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Nutrition{}, &ParseError{Page: "label", Err: err}
	}
	return ExtractNutritionDocument(ctx, doc), nil
}

func ExtractNutritionDocument(ctx context.Context, doc *goquery.Document) Nutrition {
	_, span := tracer.Start(ctx, "ExtractNutrition")
	defer span.End()

	facts := map[string]string{}
	doc.Find("span.nutfactstopnutrient").Each(func(_ int, fact *goquery.Selection) {
		label := fact.Find("b").First()
		if label.Length() == 0 {
			return
		}
		name := htmlutil.SelectionText(label)
		if name == "" {
			return
		}
		value := htmlutil.CleanText(strings.ReplaceAll(htmlutil.SelectionText(fact), name, ""))
		if value == "" {
			return
		}
		facts[name] = value
	})

	servingSize := servingSize(doc)
	if servingSize != "" {
		facts[servingSizeFact] = servingSize
	}
	calories := htmlutil.SelectionText(doc.Find(".nutfactscaloriesval").First())
	if _, exists := facts[caloriesFact]; !exists && calories != "" {
		facts[caloriesFact] = calories
	}

	out := Nutrition{
		Name:        htmlutil.SelectionText(doc.Find("div.labelrecipe").First()),
		Facts:       facts,
		Ingredients: htmlutil.SelectionText(doc.Find("span.labelingredientsvalue").First()),
		Allergens:   htmlutil.SelectionText(doc.Find("span.labelallergensvalue").First()),
	}
	span.SetAttributes(
		attribute.Int("facts", len(facts)),
		attribute.Bool("empty", out.Empty()),
	)
	return out
}

// the serving size is sometimes split into a label and a value element.
func servingSize(doc *goquery.Document) string {
	var parts []string
	doc.Find(".nutfactsservsize").Each(func(_ int, s *goquery.Selection) {
		text := htmlutil.SelectionText(s)
		if text != "" {
			parts = append(parts, text)
		}
	})
	joined := strings.Join(parts, " ")
	return strings.TrimSpace(servingSizePrefix.ReplaceAllString(joined, ""))
}
