package models

import "time"

type StocktakeState string

const (
	StocktakeStateDraft      StocktakeState = "draft"
	StocktakeStateInProgress StocktakeState = "in_progress"
	StocktakeStateDone       StocktakeState = "done"
	StocktakeStateCancelled  StocktakeState = "cancelled"
)

// Stocktake: Fiziksel stok sayım oturumu.
// draft -> in_progress -> done; draft/in_progress -> cancelled -> draft
type Stocktake struct {
	ID     uint      `gorm:"primaryKey"`
	Name   string    `gorm:"size:50;not null;uniqueIndex"` // sıralı referans (ST/00001)
	Date   time.Time `gorm:"index;not null"`
	UserID uint      `gorm:"index;not null"` // sorumlu
	User   User
	State  StocktakeState `gorm:"size:20;not null;default:'draft';index"`
	Notes  string         `gorm:"type:text"`

	// Fazla/eksik hesapları - oluşturma sırasında ayarlardan doldurulur
	GainAccountID *uint `gorm:"index"`
	GainAccount   *Account
	LossAccountID *uint `gorm:"index"`
	LossAccount   *Account

	// Doğrulama sonrası oluşan mahsup fişi
	AccountMoveID *uint `gorm:"index"`
	AccountMove   *AccountMove

	CreatedAt time.Time
	UpdatedAt time.Time

	Lines []StocktakeLine `gorm:"foreignKey:StocktakeID;constraint:OnDelete:CASCADE"`
}

// StocktakeLine: Sayımdaki bir malzeme satırı.
// SystemQty satır oluşturulurken/güncellenirken alınan anlık fotoğraftır,
// doğrulama sırasında yeniden okunmaz.
type StocktakeLine struct {
	ID          uint `gorm:"primaryKey"`
	StocktakeID uint `gorm:"index;not null"`
	ProductID   uint `gorm:"index;not null"`
	Product     Product
	SystemQty   float64 `gorm:"not null;default:0"` // sistemdeki miktar
	CountedQty  float64 `gorm:"not null;default:0"` // sayılan miktar
	Notes       string  `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// VarianceQty - Fark = sayılan - sistem
func (l *StocktakeLine) VarianceQty() float64 {
	return l.CountedQty - l.SystemQty
}

// SystemValue - Sistem miktarının parasal değeri (güncel birim maliyetle)
func (l *StocktakeLine) SystemValue() float64 {
	return l.SystemQty * l.Product.StandardCost
}

func (l *StocktakeLine) CountedValue() float64 {
	return l.CountedQty * l.Product.StandardCost
}

func (l *StocktakeLine) VarianceValue() float64 {
	return l.VarianceQty() * l.Product.StandardCost
}
