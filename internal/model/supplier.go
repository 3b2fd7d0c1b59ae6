package model

import "time"

// Supplier is a vendor the business buys stock from.
type Supplier struct {
	ID        int          `json:"id"`
	Name      string       `json:"name"`
	Contact   string       `json:"contact"`
	Email     string       `json:"email"`
	Phone     string       `json:"phone"`
	Address   string       `json:"address"`
	Status    ClientStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

type SupplierPatch struct {
	Name    *string       `json:"name,omitempty"`
	Contact *string       `json:"contact,omitempty"`
	Email   *string       `json:"email,omitempty"`
	Phone   *string       `json:"phone,omitempty"`
	Address *string       `json:"address,omitempty"`
	Status  *ClientStatus `json:"status,omitempty"`
}

func (s *Supplier) Apply(patch SupplierPatch) {
	if patch.Name != nil {
		s.Name = *patch.Name
	}
	if patch.Contact != nil {
		s.Contact = *patch.Contact
	}
	if patch.Email != nil {
		s.Email = *patch.Email
	}
	if patch.Phone != nil {
		s.Phone = *patch.Phone
	}
	if patch.Address != nil {
		s.Address = *patch.Address
	}
	if patch.Status != nil {
		s.Status = *patch.Status
	}
}
