package enums

import "fmt"

// PurchaseChannel records where an order came from.
type PurchaseChannel string

const (
	PurchaseChannelWeb         PurchaseChannel = "web"
	PurchaseChannelDeliveryApp PurchaseChannel = "delivery_app"
	PurchaseChannelPhone       PurchaseChannel = "phone"
)

var validPurchaseChannels = []PurchaseChannel{
	PurchaseChannelWeb,
	PurchaseChannelDeliveryApp,
	PurchaseChannelPhone,
}

func (p PurchaseChannel) String() string {
	return string(p)
}

func (p PurchaseChannel) IsValid() bool {
	for _, candidate := range validPurchaseChannels {
		if candidate == p {
			return true
		}
	}
	return false
}

func ParsePurchaseChannel(value string) (PurchaseChannel, error) {
	for _, candidate := range validPurchaseChannels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid purchase channel %q", value)
}
