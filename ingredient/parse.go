package ingredient

import (
	"strconv"
	"strings"
)

// Parsed is the result of parsing one free-text ingredient line. Quantity is
// nil when the line carries no leading numeral or fraction. Name is never
// empty unless the input was empty or whitespace.
type Parsed struct {
	Quantity *float64 `json:"quantity"`
	Unit     string   `json:"unit,omitempty"`
	Name     string   `json:"name"`
}

// units maps every accepted unit token to its canonical short code.
var units = map[string]string{
	"cup": "cup", "cups": "cup",
	"tbsp": "tbsp", "tablespoon": "tbsp", "tablespoons": "tbsp",
	"tsp": "tsp", "teaspoon": "tsp", "teaspoons": "tsp",
	"oz": "oz", "ounce": "oz", "ounces": "oz",
	"lb": "lb", "lbs": "lb", "pound": "lb", "pounds": "lb",
	"g": "g", "gram": "g", "grams": "g",
	"kg": "kg", "kilogram": "kg", "kilograms": "kg",
	"ml": "ml", "milliliter": "ml", "milliliters": "ml",
	"l": "l", "liter": "l", "liters": "l", "litre": "l", "litres": "l",
	"piece": "piece", "pieces": "piece",
	"clove": "clove", "cloves": "clove",
	"can": "can", "cans": "can",
	"pinch": "pinch", "pinches": "pinch",
	"slice": "slice", "slices": "slice",
	"bunch": "bunch", "bunches": "bunch",
	"stick": "stick", "sticks": "stick",
	"head": "head", "heads": "head",
}

// vulgarFractions covers the unicode fraction runes that show up in recipe
// text copied from the web.
var vulgarFractions = map[rune]float64{
	'½': 0.5,
	'⅓': 1.0 / 3.0,
	'⅔': 2.0 / 3.0,
	'¼': 0.25,
	'¾': 0.75,
	'⅕': 0.2,
	'⅖': 0.4,
	'⅗': 0.6,
	'⅘': 0.8,
	'⅙': 1.0 / 6.0,
	'⅚': 5.0 / 6.0,
	'⅛': 0.125,
	'⅜': 0.375,
	'⅝': 0.625,
	'⅞': 0.875,
}

// Parse splits an ingredient line into quantity, unit, and item name.
// It understands integers, decimals, simple and unicode fractions, and
// mixed numbers ("1 1/2 cups flour"). A unit token is only consumed when a
// quantity precedes it, and a single "of" after the unit is dropped.
// Malformed input never fails: the worst case is a nil quantity with the
// original text as the name.
func Parse(line string) Parsed {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return Parsed{}
	}

	fields := strings.Fields(trimmed)
	qty, consumed := parseQuantity(fields)
	if consumed == 0 {
		return Parsed{Name: trimmed}
	}

	rest := fields[consumed:]
	unit := ""
	if len(rest) > 0 {
		if u, ok := units[strings.ToLower(rest[0])]; ok {
			unit = u
			rest = rest[1:]
		}
	}
	if len(rest) > 0 && strings.EqualFold(rest[0], "of") {
		rest = rest[1:]
	}

	name := strings.Join(rest, " ")
	if name == "" {
		// A bare quantity ("2" or "2 cups") names nothing; keep the
		// original text so the caller still has something to match on.
		return Parsed{Name: trimmed}
	}
	return Parsed{Quantity: &qty, Unit: unit, Name: name}
}

// parseQuantity reads a leading quantity from the fields and reports how
// many fields it consumed, zero when the line has none.
func parseQuantity(fields []string) (float64, int) {
	if len(fields) == 0 {
		return 0, 0
	}

	first, ok := parseNumeric(fields[0])
	if !ok {
		return 0, 0
	}

	// Mixed number: a whole part followed by a plain fraction ("1 1/2").
	if len(fields) > 1 && first == float64(int64(first)) {
		if frac, ok := parseFraction(fields[1]); ok {
			return first + frac, 2
		}
	}
	return first, 1
}

// parseNumeric accepts integers, decimals, plain fractions, unicode
// fractions, and an integer with a unicode fraction attached ("1½").
func parseNumeric(tok string) (float64, bool) {
	if v, err := strconv.ParseFloat(tok, 64); err == nil && v >= 0 {
		return v, true
	}
	if v, ok := parseFraction(tok); ok {
		return v, true
	}

	runes := []rune(tok)
	if frac, ok := vulgarFractions[runes[len(runes)-1]]; ok {
		whole := string(runes[:len(runes)-1])
		if whole == "" {
			return frac, true
		}
		if v, err := strconv.ParseFloat(whole, 64); err == nil && v >= 0 {
			return v + frac, true
		}
	}
	return 0, false
}

func parseFraction(tok string) (float64, bool) {
	num, den, ok := strings.Cut(tok, "/")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(num)
	if err != nil || n < 0 {
		return 0, false
	}
	d, err := strconv.Atoi(den)
	if err != nil || d <= 0 {
		return 0, false
	}
	return float64(n) / float64(d), true
}
