package domain

import "time"

// Address is a postal address
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Province   string `json:"province"`
	Country    string `json:"country"`
}

// Contact holds the ways to reach a person or an establishment
type Contact struct {
	Phone string `json:"phone"`
	Fax   string `json:"fax,omitempty"`
	Email string `json:"email"`
}

// Waiter is a staff member who serves orders
type Waiter struct {
	ID                 int64   `json:"id"`
	DNI                string  `json:"dni"`
	Name               string  `json:"name"`
	Surname1           string  `json:"surname1"`
	Surname2           string  `json:"surname2"`
	Address            Address `json:"address"`
	Contact            Contact `json:"contact"`
	FoodHandlerLicence string  `json:"foodHandlerLicence"`
}

// Client is a registered customer
type Client struct {
	ID       int64   `json:"id"`
	DNI      string  `json:"dni"`
	Name     string  `json:"name"`
	Surname1 string  `json:"surname1"`
	Surname2 string  `json:"surname2"`
	Address  Address `json:"address"`
	Contact  Contact `json:"contact"`
}

// Establishment is a restaurant location
type Establishment struct {
	Code        int64     `json:"code"`
	TradeName   string    `json:"tradeName"`
	OpeningDate time.Time `json:"openingDate"`
	Address     Address   `json:"address"`
	Contact     Contact   `json:"contact"`
}

// Category groups products
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Product is an item that can be ordered
type Product struct {
	Code             int64     `json:"code"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Price            float64   `json:"price"`
	Category         *Category `json:"category"`
	RegistrationDate time.Time `json:"registrationDate"`
	Discontinued     bool      `json:"discontinued"`
}

// Catalog bundles reference entities, used to seed the store
type Catalog struct {
	Categories     []Category      `json:"categories"`
	Products       []Product       `json:"products"`
	Waiters        []Waiter        `json:"waiters"`
	Clients        []Client        `json:"clients"`
	Establishments []Establishment `json:"establishments"`
}
