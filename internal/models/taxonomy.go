package models

// Category is a suggested category with its suggested subcategories.
type Category struct {
	Name          string
	Subcategories []string
}

// DefaultCategories is the category list offered by the expense form.
// Stored expenses are not validated against it.
var DefaultCategories = []Category{
	{"Venue", []string{"Hall", "Decor", "Lighting", "Sound"}},
	{"Catering", []string{"Food", "Beverages", "Snacks", "Desserts"}},
	{"Photography", []string{"Candid", "Videography", "Album"}},
	{"Attire", []string{"Bride", "Groom", "Family"}},
	{"Jewellery", []string{"Gold", "Diamond", "Rental"}},
	{"Invitations", []string{"Cards", "E-Invites"}},
	{"Gifts", []string{"Return Gifts", "Guests"}},
	{"Travel", []string{"Cars", "Logistics"}},
	{"Accommodation", []string{"Hotel", "Guest House"}},
	{"Rituals", []string{"Pandit", "Samagri", "Mehendi", "Haldi", "Sagan"}},
	{"Entertainment", []string{"DJ", "Live Band", "Band-Baja"}},
	{"Baraat", []string{"Logistics", "Horse/Car", "Dhol"}},
	{"Misc", []string{"Tips", "Contingency"}},
}

// PaymentModes are the payment modes offered by the expense form.
var PaymentModes = []string{"Cash", "UPI", "Card", "Bank Transfer", "Cheque"}
