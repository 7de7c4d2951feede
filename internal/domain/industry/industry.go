package industry

import "errors"

// Industry tags every rate, sale, and allocation. Each industry has its own
// physical rate and allocation tables; the discriminator keeps them one
// logical stream everywhere above the repository layer.
type Industry string

const (
	Solar   Industry = "solar"
	Pest    Industry = "pest"
	Roofing Industry = "roofing"
	Fiber   Industry = "fiber"
)

var ErrUnknownIndustry = errors.New("unknown industry")

// All lists the supported industries in stable order.
func All() []Industry {
	return []Industry{Solar, Pest, Roofing, Fiber}
}

func Parse(s string) (Industry, error) {
	switch Industry(s) {
	case Solar, Pest, Roofing, Fiber:
		return Industry(s), nil
	}
	return "", ErrUnknownIndustry
}

func (i Industry) Valid() bool {
	switch i {
	case Solar, Pest, Roofing, Fiber:
		return true
	}
	return false
}

func (i Industry) String() string {
	return string(i)
}

// RateTable returns the physical commission-rate table for the industry.
func (i Industry) RateTable() string {
	return string(i) + "_commission_rates"
}

// AllocationTable returns the physical allocation table for the industry.
func (i Industry) AllocationTable() string {
	return string(i) + "_allocations"
}

// DetailTable returns the industry detail table attached to sales.
func (i Industry) DetailTable() string {
	return string(i) + "_sale_details"
}
