// Package entity contains the core business objects of the project.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Address is a delivery address owned by a user, following the Brazilian
// postal format.
type Address struct {
	ID          uuid.UUID // The Global Unique Identifier (GUID) for the address.
	UserID      uuid.UUID // The ID of the user that owns this address.
	Rua         string    // Street name.
	Numero      string    // Street number; kept as a string to allow "S/N" (no number).
	Complemento string    // Optional complement, e.g., "Apto 42".
	Bairro      string    // Neighbourhood.
	Cidade      string    // City.
	Estado      string    // Two-letter state code, e.g., "SP".
	CEP         string    // Postal code in "00000-000" format.
	Referencia  string    // Optional free-text landmark reference for the courier.
	IsDefault   bool      // Indicates if this is the default delivery address for the user.
	CreatedAt   time.Time // Timestamp of when this address was created.
	UpdatedAt   time.Time // Timestamp of the last modification.
}

// Formatted renders the address as a single human-readable line,
// skipping empty optional parts.
func (a *Address) Formatted() string {
	parts := make([]string, 0, 6)

	street := a.Rua
	if a.Numero != "" {
		street += ", " + a.Numero
	}
	if street != "" {
		parts = append(parts, street)
	}
	if a.Complemento != "" {
		parts = append(parts, a.Complemento)
	}
	if a.Bairro != "" {
		parts = append(parts, a.Bairro)
	}

	cityState := a.Cidade
	if a.Estado != "" {
		if cityState != "" {
			cityState += " - " + a.Estado
		} else {
			cityState = a.Estado
		}
	}
	if cityState != "" {
		parts = append(parts, cityState)
	}
	if a.CEP != "" {
		parts = append(parts, "CEP "+a.CEP)
	}

	return strings.Join(parts, ", ")
}
