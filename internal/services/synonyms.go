package services

// ingredientSynonyms groups names that refer to the same ingredient.
// Entries are normalized names; lookups compare singular forms.
var ingredientSynonyms = [][]string{
	{"scallion", "green onion", "spring onion"},
	{"cilantro", "coriander leaves", "fresh coriander", "chinese parsley"},
	{"chickpea", "garbanzo bean", "garbanzo"},
	{"zucchini", "courgette"},
	{"eggplant", "aubergine"},
	{"bell pepper", "capsicum", "sweet pepper"},
	{"arugula", "rocket"},
	{"shrimp", "prawn"},
	{"powdered sugar", "confectioners sugar", "icing sugar"},
	{"heavy cream", "heavy whipping cream", "double cream"},
	{"cornstarch", "corn starch", "cornflour"},
	{"baking soda", "bicarbonate of soda", "sodium bicarbonate"},
	{"ground beef", "minced beef", "beef mince"},
	{"all purpose flour", "plain flour"},
	{"rutabaga", "swede"},
	{"snow pea", "mangetout"},
	{"beet", "beetroot"},
	{"molasses", "treacle"},
}

// synonymGroups maps the singular form of every synonym to its group index
var synonymGroups = func() map[string]int {
	groups := make(map[string]int)
	for i, group := range ingredientSynonyms {
		for _, name := range group {
			groups[Singularize(NormalizeIngredientName(name))] = i
		}
	}
	return groups
}()

// AreSynonyms reports whether two normalized names are listed as synonyms.
// Identical names are not synonyms; the exact tiers cover them.
func AreSynonyms(a, b string) bool {
	sa, sb := Singularize(a), Singularize(b)
	if sa == sb {
		return false
	}
	ga, ok := synonymGroups[sa]
	if !ok {
		return false
	}
	gb, ok := synonymGroups[sb]
	return ok && ga == gb
}
