package kernel

import (
	"errors"
	"fmt"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrAddressIsNotConstructed is returned when attempting to use an improperly initialized Address.
var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError(
	"address must be created via NewAddress constructor")

// Address is an immutable postal address snapshot. Delivery tasks capture the
// pickup and dropoff addresses at creation time; they never change afterwards
// even if the restaurant later edits its registered address.
//
// Example:
//
//	addr, err := kernel.NewAddress("12 Baker Street", "London")
//	if err != nil {
//	    // Handle validation error
//	}
type Address struct { //nolint:recvcheck //using for validation
	street string
	city   string
	guard  guard.ConstructorGuard
}

// NewAddress creates an Address with the specified street and city.
// Both values must be non-empty.
func NewAddress(street string, city string) (Address, error) {
	address := Address{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(address.setStreet(street), address.setCity(city)); err != nil {
		return Address{}, err
	}

	return address, nil
}

// Validate checks that the Address was created via NewAddress.
func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

// Street returns the street line of the address.
func (a Address) Street() string {
	return a.street
}

// City returns the city of the address.
func (a Address) City() string {
	return a.city
}

// IsEqual compares two addresses field by field.
func (a Address) IsEqual(other Address) bool {
	return a.street == other.street && a.city == other.city
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return fmt.Sprintf("%s, %s", a.street, a.city)
}

func (a *Address) setStreet(street string) error {
	if street == "" {
		return errs.NewValueIsRequiredError("street")
	}

	a.street = street
	return nil
}

func (a *Address) setCity(city string) error {
	if city == "" {
		return errs.NewValueIsRequiredError("city")
	}

	a.city = city
	return nil
}
