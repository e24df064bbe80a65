package orm

import "time"

// AddressModel is embedded in every table that stores a postal address
type AddressModel struct {
	Street     string `gorm:"size:255"`
	City       string `gorm:"size:100"`
	PostalCode string `gorm:"size:10"`
	Province   string `gorm:"size:100"`
	Country    string `gorm:"size:100"`
}

// ContactModel is embedded in every table that stores contact details
type ContactModel struct {
	Phone string `gorm:"size:20"`
	Fax   string `gorm:"size:20"`
	Email string `gorm:"size:255"`
}

type WaiterModel struct {
	ID                 int64        `gorm:"primaryKey;autoIncrement:false"`
	DNI                string       `gorm:"size:9;uniqueIndex"`
	Name               string       `gorm:"size:100;not null"`
	Surname1           string       `gorm:"size:100"`
	Surname2           string       `gorm:"size:100"`
	Address            AddressModel `gorm:"embedded;embeddedPrefix:address_"`
	Contact            ContactModel `gorm:"embedded;embeddedPrefix:contact_"`
	FoodHandlerLicence string       `gorm:"size:20"`
}

func (WaiterModel) TableName() string { return "camareros" }

type ClientModel struct {
	ID       int64        `gorm:"primaryKey;autoIncrement:false"`
	DNI      string       `gorm:"size:9;uniqueIndex"`
	Name     string       `gorm:"size:100;not null"`
	Surname1 string       `gorm:"size:100"`
	Surname2 string       `gorm:"size:100"`
	Address  AddressModel `gorm:"embedded;embeddedPrefix:address_"`
	Contact  ContactModel `gorm:"embedded;embeddedPrefix:contact_"`
}

func (ClientModel) TableName() string { return "clientes" }

type EstablishmentModel struct {
	Code        int64        `gorm:"primaryKey;autoIncrement:false"`
	TradeName   string       `gorm:"size:255;not null"`
	OpeningDate time.Time
	Address     AddressModel `gorm:"embedded;embeddedPrefix:address_"`
	Contact     ContactModel `gorm:"embedded;embeddedPrefix:contact_"`
}

func (EstablishmentModel) TableName() string { return "establecimientos" }

type CategoryModel struct {
	ID   int64  `gorm:"primaryKey;autoIncrement:false"`
	Name string `gorm:"size:100;not null;uniqueIndex"`
}

func (CategoryModel) TableName() string { return "categorias" }

type ProductModel struct {
	Code             int64  `gorm:"primaryKey;autoIncrement:false"`
	Name             string `gorm:"size:255;not null"`
	Description      string `gorm:"type:text"`
	Price            float64
	CategoryID       *int64
	Category         *CategoryModel `gorm:"foreignKey:CategoryID;references:ID"`
	RegistrationDate time.Time
	Discontinued     bool
}

func (ProductModel) TableName() string { return "productos" }

type OrderModel struct {
	ID                int64 `gorm:"primaryKey;autoIncrement"`
	Date              time.Time
	ClientID          *int64
	Client            *ClientModel `gorm:"foreignKey:ClientID;references:ID"`
	WaiterID          *int64
	Waiter            *WaiterModel `gorm:"foreignKey:WaiterID;references:ID"`
	EstablishmentCode *int64
	Establishment     *EstablishmentModel `gorm:"foreignKey:EstablishmentCode;references:Code"`
	Status            string              `gorm:"size:20;index"`
	Lines             []OrderLineModel    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderModel) TableName() string { return "pedidos" }

// OrderLineModel keeps Position so lines come back in the order they were written
type OrderLineModel struct {
	ID          int64 `gorm:"primaryKey;autoIncrement"`
	OrderID     int64 `gorm:"index;not null"`
	Position    int   `gorm:"not null"`
	ProductCode *int64
	Product     *ProductModel `gorm:"foreignKey:ProductCode;references:Code"`
	Quantity    int
}

func (OrderLineModel) TableName() string { return "lineas_pedido" }

// UserModel is a staff account allowed to sign in
type UserModel struct {
	Username     string `gorm:"primaryKey;size:100"`
	PasswordHash string `gorm:"size:100;not null"`
	Role         string `gorm:"size:50;not null"`
}

func (UserModel) TableName() string { return "usuarios" }

// AllModels lists every table managed by this package, in dependency order.
func AllModels() []any {
	return []any{
		&CategoryModel{},
		&ProductModel{},
		&WaiterModel{},
		&ClientModel{},
		&EstablishmentModel{},
		&OrderModel{},
		&OrderLineModel{},
		&UserModel{},
	}
}
