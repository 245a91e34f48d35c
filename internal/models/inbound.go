package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The records below are written by the storefront and only read here.

type Review struct {
	Base        `bson:",inline"`
	Name        string `json:"name" bson:"name"`
	Email       string `json:"email" bson:"email"`
	Description string `json:"description" bson:"description"`
	Rating      int    `json:"rating" bson:"rating"`
	ProductID   string `json:"product_id" bson:"product_id"`
	Approved    bool   `json:"approved" bson:"approved"`
}

type BulkOrder struct {
	Base        `bson:",inline"`
	FirstName   string `json:"first_name" bson:"first_name"`
	Email       string `json:"email" bson:"email"`
	MobileNo    string `json:"mobile_no" bson:"mobile_no"`
	PhoneNumber string `json:"-" bson:"phone_number,omitempty"`
	State       string `json:"state" bson:"state"`
	ProductName string `json:"product_name" bson:"product_name"`
	CompanyName string `json:"company_name" bson:"company_name"`
	Message     string `json:"message" bson:"message"`
}

// Normalize prefers phone_number, which newer storefront builds write.
func (o *BulkOrder) Normalize() {
	if o.PhoneNumber != "" {
		o.MobileNo = o.PhoneNumber
	}
}

type ContactMessage struct {
	Base      `bson:",inline"`
	FirstName string `json:"first_name" bson:"first_name"`
	LastName  string `json:"last_name" bson:"last_name"`
	Email     string `json:"email" bson:"email"`
	Phone     string `json:"phone" bson:"phone"`
	Message   string `json:"message" bson:"message"`
}

type Contact struct {
	Base        `bson:",inline"`
	Name        string `json:"name" bson:"name"`
	Email       string `json:"email" bson:"email"`
	Message     string `json:"message" bson:"message"`
	PhoneNumber string `json:"phone_number" bson:"phone_number"`
}

// Visitor is a storefront account. Anything else the storefront attaches to
// the account (orders, addresses) is kept in Extra.
type Visitor struct {
	Base  `bson:",inline"`
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
	Phone string `json:"phone" bson:"phone"`
	Extra bson.M `json:"extra,omitempty" bson:",inline"`
}

// Normalize turns nested documents decoded as ordered pairs back into maps so
// they encode as JSON objects.
func (v *Visitor) Normalize() {
	for k, val := range v.Extra {
		v.Extra[k] = plain(val)
	}
}

func plain(v any) any {
	switch val := v.(type) {
	case primitive.D:
		m := make(bson.M, len(val))
		for _, e := range val {
			m[e.Key] = plain(e.Value)
		}
		return m
	case bson.M:
		for k, child := range val {
			val[k] = plain(child)
		}
		return val
	case primitive.A:
		for i, child := range val {
			val[i] = plain(child)
		}
		return val
	}
	return v
}
