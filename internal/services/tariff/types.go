package tariff

import "time"

// Request carries the shipment attributes a tariff is derived from. Optional
// fields are explicit pointers so an absent value is never confused with a
// wildcard.
type Request struct {
	Origin        string     `json:"origin_country"`
	Destination   string     `json:"destination_country"`
	DeclaredValue float64    `json:"declared_value"`
	Weight        *float64   `json:"weight,omitempty"`
	GoodsCategory string     `json:"goods_category,omitempty"`
	PostalService string     `json:"postal_service,omitempty"`
	ShipDate      *time.Time `json:"ship_date,omitempty"`
}

// Defaults are the system-wide fallback parameters used when no configured
// rule matches.
type Defaults struct {
	DefaultTariffRate    float64 `json:"default_tariff_rate"`
	DefaultMinimumTariff float64 `json:"default_minimum_tariff"`
	Currency             string  `json:"default_currency"`
}

// Breakdown itemizes the calculation.
type Breakdown struct {
	BaseAmount      float64 `json:"base_amount"`
	SurchargeAmount float64 `json:"surcharge_amount"`
	TotalAmount     float64 `json:"total_amount"`
}

// Result is the full calculation output.
type Result struct {
	DeclaredValue     float64   `json:"declared_value"`
	BaseRate          float64   `json:"base_rate"`
	SurchargeRate     float64   `json:"surcharge_rate"`
	CombinedRate      float64   `json:"combined_rate"`
	MinimumTariff     float64   `json:"minimum_tariff"`
	MaximumTariff     *float64  `json:"maximum_tariff,omitempty"`
	CalculatedTariff  float64   `json:"calculated_tariff"`
	Currency          string    `json:"currency"`
	CalculationMethod string    `json:"calculation_method"`
	HasSurcharge      bool      `json:"has_surcharge"`
	Breakdown         Breakdown `json:"breakdown"`
}
