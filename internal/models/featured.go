package models

const (
	SlotBestSellers     = "best_sellers"
	SlotProductOfTheDay = "product_of_the_day"
)

// FeaturedRef points at a document in one of the product collections. The
// reference is not checked against the target collection.
type FeaturedRef struct {
	RefID  string `json:"ref_id" bson:"ref_id" binding:"required,objectid"`
	Source string `json:"source" bson:"source" binding:"required,oneof=products comboProducts giftProducts"`
	Name   string `json:"name,omitempty" bson:"name,omitempty"`
}

// Featured stores the selection for one storefront slot.
type Featured struct {
	Base  `bson:",inline"`
	Slot  string        `json:"slot" bson:"slot"`
	Items []FeaturedRef `json:"items" bson:"items"`
}
