package model

// StoreSettings is the singleton row (ID 1) holding store contact info, the
// bank transfer block shown at checkout, and the storefront hero image.
type StoreSettings struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	StoreName    string `gorm:"type:varchar(150)" json:"store_name"`
	ContactEmail string `gorm:"type:varchar(255)" json:"contact_email"`
	Address      string `gorm:"type:varchar(255)" json:"address"`
	WhatsApp     string `gorm:"type:varchar(30)" json:"whatsapp"`
	HeroImageURL string `gorm:"type:text" json:"hero_image_url"`

	// Bank transfer details.
	Bank    string `gorm:"type:varchar(100)" json:"bank"`
	CBU     string `gorm:"type:varchar(30)" json:"cbu"`
	Alias   string `gorm:"type:varchar(60)" json:"alias"`
	Account string `gorm:"type:varchar(150)" json:"account"`
	CUIT    string `gorm:"type:varchar(20)" json:"cuit"`
}

// StoreSettingsID pins the singleton row.
const StoreSettingsID uint = 1
