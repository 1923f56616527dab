package pricing

// LTMPolicy is the less-than-minimum fee for a method: orders below
// ThresholdQty pay FlatFee, spread across the units.
type LTMPolicy struct {
	ThresholdQty int     `json:"threshold_qty"`
	FlatFee      float64 `json:"flat_fee"`
}

func ltmSurcharge(quantity int, policy LTMPolicy) float64 {
	if policy.ThresholdQty <= 0 || policy.FlatFee <= 0 || quantity <= 0 {
		return 0
	}
	if quantity >= policy.ThresholdQty {
		return 0
	}
	return policy.FlatFee / float64(quantity)
}
