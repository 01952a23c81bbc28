package models

import "time"

// Calculation methods stamped on shipments by the engine.
const (
	MethodConfigured = "configured"
	MethodFallback   = "fallback"
)

// Shipment is a processed shipment record. Ingestion and export generation are
// external collaborators; the engine only reads shipment attributes and writes
// back the tariff columns during batch recalculation.
type Shipment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TrackingNumber string `gorm:"size:100;index" json:"tracking_number"`
	ReceptacleID   string `gorm:"size:200" json:"receptacle_id"`

	OriginStation      string `gorm:"size:50;index" json:"origin_station"`
	DestinationStation string `gorm:"size:50;index" json:"destination_station"`

	BagWeight       float64    `json:"bag_weight"`
	DeclaredContent string     `gorm:"type:text" json:"declared_content"`
	DeclaredValue   float64    `json:"declared_value"`
	Currency        string     `gorm:"size:10" json:"currency"`
	GoodsCategory   string     `gorm:"size:100;default:'*'" json:"goods_category"`
	PostalService   string     `gorm:"size:100;default:'*'" json:"postal_service"`
	ShipmentDate    *time.Time `gorm:"type:date" json:"shipment_date,omitempty"`

	TariffAmount            float64 `json:"tariff_amount"`
	TariffRateUsed          float64 `json:"tariff_rate_used"`
	TariffCalculationMethod string  `gorm:"size:30;default:'fallback'" json:"tariff_calculation_method"`
}
