package service

import (
	"github.com/guialocal/guialocal-backend/pkg/util"
)

// FallbackCategory is used when a place carries no type tags.
const FallbackCategory = "Outros"

type categoryRule struct {
	tags     []string
	category string
}

// categoryRules are checked in order; the first rule with any tag present in
// the place types wins.
var categoryRules = []categoryRule{
	{[]string{"restaurant", "meal_takeaway", "meal_delivery"}, "Restaurante"},
	{[]string{"bakery"}, "Padaria"},
	{[]string{"supermarket", "grocery_or_supermarket", "convenience_store"}, "Mercado"},
	{[]string{"pharmacy", "drugstore"}, "Farmácia"},
	{[]string{"beauty_salon", "hair_care", "spa"}, "Salão de Beleza"},
	{[]string{"gym"}, "Academia"},
	{[]string{"pet_store", "veterinary_care"}, "Pet Shop"},
	{[]string{"car_repair", "car_wash", "car_dealer"}, "Oficina Mecânica"},
	{[]string{"clothing_store", "shoe_store"}, "Loja de Roupas"},
	{[]string{"cafe"}, "Café"},
	{[]string{"bar", "night_club"}, "Bar"},
	{[]string{"dentist", "doctor", "hospital", "physiotherapist"}, "Saúde"},
	{[]string{"school", "university"}, "Educação"},
	{[]string{"hardware_store", "home_goods_store", "furniture_store"}, "Casa e Construção"},
	{[]string{"electronics_store"}, "Eletrônicos"},
	{[]string{"lodging"}, "Hospedagem"},
	{[]string{"gas_station"}, "Posto de Combustível"},
}

// tagTranslations names generic tags that no rule claims.
var tagTranslations = map[string]string{
	"store":              "Loja",
	"food":               "Alimentação",
	"point_of_interest":  "Ponto de Interesse",
	"establishment":      "Estabelecimento",
	"health":             "Saúde",
	"finance":            "Finanças",
	"bank":               "Banco",
	"church":             "Igreja",
	"laundry":            "Lavanderia",
	"florist":            "Floricultura",
	"book_store":         "Livraria",
	"jewelry_store":      "Joalheria",
	"liquor_store":       "Adega",
	"real_estate_agency": "Imobiliária",
	"lawyer":             "Advocacia",
	"accounting":         "Contabilidade",
}

// MapCategory picks the directory category for a set of provider type tags.
// Unknown first tags are humanized: "bicycle_store" becomes "Bicycle Store".
func MapCategory(types []string) string {
	if len(types) == 0 {
		return FallbackCategory
	}
	present := make(map[string]struct{}, len(types))
	for _, t := range types {
		present[t] = struct{}{}
	}
	for _, rule := range categoryRules {
		for _, tag := range rule.tags {
			if _, ok := present[tag]; ok {
				return rule.category
			}
		}
	}
	return HumanizeTag(types[0])
}

// HumanizeTag translates a single provider tag for display.
func HumanizeTag(tag string) string {
	if label, ok := tagTranslations[tag]; ok {
		return label
	}
	if label := util.Humanize(tag); label != "" {
		return label
	}
	return FallbackCategory
}
