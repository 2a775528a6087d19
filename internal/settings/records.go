package settings

import "time"

// Company holds the company profile shown at the top of the settings screen.
type Company struct {
	CompanyName string `json:"companyName" yaml:"companyName"`
	Address     string `json:"address" yaml:"address"`
	City        string `json:"city" yaml:"city"`
	State       string `json:"state" yaml:"state"`
	ZipCode     string `json:"zipCode" yaml:"zipCode"`
	Phone       string `json:"phone" yaml:"phone"`
	Email       string `json:"email" yaml:"email"`
	Website     string `json:"website" yaml:"website"`
	TaxID       string `json:"taxId" yaml:"taxId"`
}

// Accounting holds accounting preferences.
type Accounting struct {
	FiscalYearStart string  `json:"fiscalYearStart" yaml:"fiscalYearStart"`
	Currency        string  `json:"currency" yaml:"currency"`
	DateFormat      string  `json:"dateFormat" yaml:"dateFormat"`
	DecimalPlaces   int     `json:"decimalPlaces" yaml:"decimalPlaces"`
	DefaultTaxRate  float64 `json:"defaultTaxRate" yaml:"defaultTaxRate"`
}

// Backup holds the backup configuration. LastBackup is only ever written by
// BackupNow or an explicit set.
type Backup struct {
	AutoBackup      bool      `json:"autoBackup" yaml:"autoBackup"`
	BackupFrequency string    `json:"backupFrequency" yaml:"backupFrequency"`
	BackupLocation  string    `json:"backupLocation" yaml:"backupLocation"`
	RetentionDays   int       `json:"retentionDays" yaml:"retentionDays"`
	LastBackup      time.Time `json:"lastBackup" yaml:"lastBackup"`
}

// User holds per-user display preferences.
type User struct {
	Theme             string `json:"theme" yaml:"theme"`
	Language          string `json:"language" yaml:"language"`
	Timezone          string `json:"timezone" yaml:"timezone"`
	ItemsPerPage      int    `json:"itemsPerPage" yaml:"itemsPerPage"`
	ShowConfirmations bool   `json:"showConfirmations" yaml:"showConfirmations"`
}

// Settings is the aggregate of the four records.
type Settings struct {
	Company    Company    `json:"company" yaml:"company"`
	Accounting Accounting `json:"accounting" yaml:"accounting"`
	Backup     Backup     `json:"backup" yaml:"backup"`
	User       User       `json:"user" yaml:"user"`
}

// DefaultCompany returns the company profile a fresh form starts with and
// the one Reset restores.
func DefaultCompany() Company {
	return Company{
		CompanyName: "Acme Corporation",
		Address:     "123 Business Street",
		City:        "Business City",
		State:       "BC",
		ZipCode:     "12345",
		Phone:       "(555) 123-4567",
		Email:       "info@acmecorp.com",
		Website:     "www.acmecorp.com",
		TaxID:       "12-3456789",
	}
}

func DefaultAccounting() Accounting {
	return Accounting{
		FiscalYearStart: "January",
		Currency:        "USD",
		DateFormat:      "MM/DD/YYYY",
		DecimalPlaces:   2,
		DefaultTaxRate:  8.25,
	}
}

func DefaultBackup() Backup {
	return Backup{
		AutoBackup:      true,
		BackupFrequency: "daily",
		BackupLocation:  "cloud",
		RetentionDays:   30,
		LastBackup:      time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC),
	}
}

func DefaultUser() User {
	return User{
		Theme:             "light",
		Language:          "en",
		Timezone:          "America/New_York",
		ItemsPerPage:      25,
		ShowConfirmations: true,
	}
}

// Defaults returns the aggregate with every record at its default.
func Defaults() Settings {
	return Settings{
		Company:    DefaultCompany(),
		Accounting: DefaultAccounting(),
		Backup:     DefaultBackup(),
		User:       DefaultUser(),
	}
}
