package models

import "fmt"

type ShipmentPolicy string

const (
	PolicyStandard ShipmentPolicy = "standard"
	PolicyFree     ShipmentPolicy = "free"
	PolicyCustom   ShipmentPolicy = "custom"
)

type PolicyOption struct {
	ID    int
	Type  ShipmentPolicy
	Label string
}

// Policies варианты политики доставки в порядке отображения.
var Policies = []PolicyOption{
	{ID: 1, Type: PolicyStandard, Label: "Standard shipping"},
	{ID: 2, Type: PolicyFree, Label: "Free shipping"},
	{ID: 3, Type: PolicyCustom, Label: "Custom shipping cost"},
}

func ParsePolicy(value string) (ShipmentPolicy, error) {
	for _, p := range Policies {
		if string(p.Type) == value {
			return p.Type, nil
		}
	}
	return "", fmt.Errorf("unknown shipment policy %q", value)
}
