package orm

import (
	"github.com/restaurantchain/order-backend/internal/domain"
)

// The functions below translate between persisted models and domain types.
// Writing an order only ever writes foreign keys for the referenced entities,
// so the to*Ref helpers never populate association structs.

func toDomainOrder(m *OrderModel) *domain.Order {
	id := m.ID
	order := &domain.Order{
		ID:            &id,
		Date:          m.Date.UTC(),
		Status:        domain.Status(m.Status),
		Client:        toDomainClientRef(m.ClientID, m.Client),
		Waiter:        toDomainWaiterRef(m.WaiterID, m.Waiter),
		Establishment: toDomainEstablishmentRef(m.EstablishmentCode, m.Establishment),
	}

	if len(m.Lines) > 0 {
		order.Lines = make([]domain.OrderLine, 0, len(m.Lines))
		for i := range m.Lines {
			order.Lines = append(order.Lines, toDomainOrderLine(&m.Lines[i]))
		}
	}

	return order
}

func toOrderModel(o *domain.Order) *OrderModel {
	m := &OrderModel{
		Date:   o.Date,
		Status: string(o.Status),
	}
	if o.ID != nil {
		m.ID = *o.ID
	}
	if o.Client != nil {
		m.ClientID = int64Ptr(o.Client.ID)
	}
	if o.Waiter != nil {
		m.WaiterID = int64Ptr(o.Waiter.ID)
	}
	if o.Establishment != nil {
		m.EstablishmentCode = int64Ptr(o.Establishment.Code)
	}

	m.Lines = toOrderLineModels(m.ID, o.Lines)
	return m
}

func toOrderLineModels(orderID int64, lines []domain.OrderLine) []OrderLineModel {
	if len(lines) == 0 {
		return nil
	}

	models := make([]OrderLineModel, 0, len(lines))
	for i, line := range lines {
		lm := OrderLineModel{
			OrderID:  orderID,
			Position: i,
			Quantity: line.Quantity,
		}
		if line.Product != nil {
			lm.ProductCode = int64Ptr(line.Product.Code)
		}
		models = append(models, lm)
	}

	return models
}

func toDomainOrderLine(m *OrderLineModel) domain.OrderLine {
	line := domain.OrderLine{Quantity: m.Quantity}
	switch {
	case m.Product != nil:
		line.Product = toDomainProduct(m.Product)
	case m.ProductCode != nil:
		line.Product = &domain.Product{Code: *m.ProductCode}
	}
	return line
}

func toDomainClientRef(id *int64, m *ClientModel) *domain.Client {
	switch {
	case m != nil:
		c := toDomainClient(m)
		return &c
	case id != nil:
		return &domain.Client{ID: *id}
	}
	return nil
}

func toDomainWaiterRef(id *int64, m *WaiterModel) *domain.Waiter {
	switch {
	case m != nil:
		w := toDomainWaiter(m)
		return &w
	case id != nil:
		return &domain.Waiter{ID: *id}
	}
	return nil
}

func toDomainEstablishmentRef(code *int64, m *EstablishmentModel) *domain.Establishment {
	switch {
	case m != nil:
		e := toDomainEstablishment(m)
		return &e
	case code != nil:
		return &domain.Establishment{Code: *code}
	}
	return nil
}

func toDomainWaiter(m *WaiterModel) domain.Waiter {
	return domain.Waiter{
		ID:                 m.ID,
		DNI:                m.DNI,
		Name:               m.Name,
		Surname1:           m.Surname1,
		Surname2:           m.Surname2,
		Address:            toDomainAddress(m.Address),
		Contact:            toDomainContact(m.Contact),
		FoodHandlerLicence: m.FoodHandlerLicence,
	}
}

func toWaiterModel(w *domain.Waiter) WaiterModel {
	return WaiterModel{
		ID:                 w.ID,
		DNI:                w.DNI,
		Name:               w.Name,
		Surname1:           w.Surname1,
		Surname2:           w.Surname2,
		Address:            toAddressModel(w.Address),
		Contact:            toContactModel(w.Contact),
		FoodHandlerLicence: w.FoodHandlerLicence,
	}
}

func toDomainClient(m *ClientModel) domain.Client {
	return domain.Client{
		ID:       m.ID,
		DNI:      m.DNI,
		Name:     m.Name,
		Surname1: m.Surname1,
		Surname2: m.Surname2,
		Address:  toDomainAddress(m.Address),
		Contact:  toDomainContact(m.Contact),
	}
}

func toClientModel(c *domain.Client) ClientModel {
	return ClientModel{
		ID:       c.ID,
		DNI:      c.DNI,
		Name:     c.Name,
		Surname1: c.Surname1,
		Surname2: c.Surname2,
		Address:  toAddressModel(c.Address),
		Contact:  toContactModel(c.Contact),
	}
}

func toDomainEstablishment(m *EstablishmentModel) domain.Establishment {
	return domain.Establishment{
		Code:        m.Code,
		TradeName:   m.TradeName,
		OpeningDate: m.OpeningDate.UTC(),
		Address:     toDomainAddress(m.Address),
		Contact:     toDomainContact(m.Contact),
	}
}

func toEstablishmentModel(e *domain.Establishment) EstablishmentModel {
	return EstablishmentModel{
		Code:        e.Code,
		TradeName:   e.TradeName,
		OpeningDate: e.OpeningDate,
		Address:     toAddressModel(e.Address),
		Contact:     toContactModel(e.Contact),
	}
}

func toDomainCategory(m *CategoryModel) domain.Category {
	return domain.Category{ID: m.ID, Name: m.Name}
}

func toCategoryModel(c *domain.Category) CategoryModel {
	return CategoryModel{ID: c.ID, Name: c.Name}
}

func toDomainProduct(m *ProductModel) *domain.Product {
	p := &domain.Product{
		Code:             m.Code,
		Name:             m.Name,
		Description:      m.Description,
		Price:            m.Price,
		RegistrationDate: m.RegistrationDate.UTC(),
		Discontinued:     m.Discontinued,
	}

	switch {
	case m.Category != nil:
		c := toDomainCategory(m.Category)
		p.Category = &c
	case m.CategoryID != nil:
		p.Category = &domain.Category{ID: *m.CategoryID}
	}

	return p
}

func toProductModel(p *domain.Product) ProductModel {
	m := ProductModel{
		Code:             p.Code,
		Name:             p.Name,
		Description:      p.Description,
		Price:            p.Price,
		RegistrationDate: p.RegistrationDate,
		Discontinued:     p.Discontinued,
	}
	if p.Category != nil {
		m.CategoryID = int64Ptr(p.Category.ID)
	}
	return m
}

func toDomainAddress(m AddressModel) domain.Address {
	return domain.Address{
		Street:     m.Street,
		City:       m.City,
		PostalCode: m.PostalCode,
		Province:   m.Province,
		Country:    m.Country,
	}
}

func toAddressModel(a domain.Address) AddressModel {
	return AddressModel{
		Street:     a.Street,
		City:       a.City,
		PostalCode: a.PostalCode,
		Province:   a.Province,
		Country:    a.Country,
	}
}

func toDomainContact(m ContactModel) domain.Contact {
	return domain.Contact{Phone: m.Phone, Fax: m.Fax, Email: m.Email}
}

func toContactModel(c domain.Contact) ContactModel {
	return ContactModel{Phone: c.Phone, Fax: c.Fax, Email: c.Email}
}

func int64Ptr(v int64) *int64 {
	return &v
}
