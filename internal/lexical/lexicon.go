package lexical

import (
	"strings"

	"github.com/centavo-app/centavo/internal/service"
)

// StaticLexicon is the built-in SynonymSource: a fixed table of merchant
// vocabulary keyed by word and part of speech. It covers the terms that
// commonly appear in bank-feed merchant names; deployments with a richer
// synonym service can swap it out at the SynonymSource boundary.
type StaticLexicon struct{}

// NewStaticLexicon returns the built-in synonym source.
func NewStaticLexicon() *StaticLexicon {
	return &StaticLexicon{}
}

// Synonyms returns the known synonyms of word for one part of speech, or an
// empty slice. Lookup is case-insensitive.
func (l *StaticLexicon) Synonyms(word string, pos service.PartOfSpeech) []string {
	entries, ok := lexicon[pos]
	if !ok {
		return nil
	}
	return entries[strings.ToLower(word)]
}

var lexicon = map[service.PartOfSpeech]map[string][]string{
	service.Noun: {
		"cafe":       {"coffeehouse", "coffee", "espresso"},
		"coffee":     {"cafe", "espresso", "java"},
		"market":     {"grocery", "store", "supermarket", "bazaar"},
		"grocery":    {"market", "supermarket", "foodstore"},
		"store":      {"shop", "market", "outlet"},
		"shop":       {"store", "boutique", "outlet"},
		"restaurant": {"diner", "eatery", "bistro", "grill"},
		"diner":      {"restaurant", "eatery"},
		"pizza":      {"pizzeria"},
		"pizzeria":   {"pizza"},
		"bakery":     {"bakehouse", "patisserie"},
		"deli":       {"delicatessen"},
		"bar":        {"pub", "tavern", "taproom"},
		"pub":        {"bar", "tavern"},
		"gas":        {"fuel", "petrol"},
		"fuel":       {"gas", "petrol"},
		"pharmacy":   {"drugstore", "apothecary", "chemist"},
		"drugstore":  {"pharmacy", "chemist"},
		"gym":        {"fitness", "health club"},
		"fitness":    {"gym", "wellness"},
		"cinema":     {"theater", "theatre", "movies"},
		"theater":    {"cinema", "playhouse"},
		"hotel":      {"inn", "lodge", "motel"},
		"motel":      {"hotel", "inn"},
		"taxi":       {"cab", "rideshare"},
		"cab":        {"taxi"},
		"airline":    {"airways", "air"},
		"books":      {"bookstore", "bookshop"},
		"bookstore":  {"books", "bookshop"},
		"hardware":   {"tools", "homecenter"},
		"salon":      {"barbershop", "spa"},
		"laundry":    {"cleaners", "laundromat"},
		"parking":    {"garage", "lot"},
		"transit":    {"metro", "subway", "rail"},
		"liquor":     {"wine", "spirits"},
		"clinic":     {"medical", "doctor"},
		"vet":        {"veterinary", "veterinarian"},
	},
	service.Verb: {
		"eat":   {"dine", "lunch"},
		"dine":  {"eat"},
		"shop":  {"buy", "purchase"},
		"drive": {"ride", "motor"},
		"clean": {"launder", "wash"},
	},
	service.Adjective: {
		"fresh":   {"organic", "natural"},
		"organic": {"fresh", "natural"},
		"fast":    {"quick", "express"},
		"express": {"fast", "quick"},
		"whole":   {"natural", "complete"},
	},
	service.Adverb: {
		"daily":  {"everyday"},
		"fresh":  {"freshly"},
		"direct": {"directly"},
	},
}
