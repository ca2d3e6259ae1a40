package battle

import "strings"

// FullHeal cures any status condition.
const FullHeal = "full_heal"

// healingItems maps a healing item ID to the HP it restores.
var healingItems = map[string]int{
	"potion":       20,
	"super_potion": 50,
	"hyper_potion": 200,
}

// IsHealingItem reports whether itemID restores HP or cures status.
func IsHealingItem(itemID string) bool {
	_, ok := healingItems[itemID]
	return ok || itemID == FullHeal
}

// itemName turns an item ID such as "super_potion" into "Super Potion".
func itemName(itemID string) string {
	words := strings.Split(itemID, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
