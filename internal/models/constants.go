package models

// Categories
const (
	CategoryUncategorized = "Uncategorized"
	CategorySalary        = "Salaire"
	CategoryHousing       = "Logement"
	CategorySubscriptions = "Abonnements"
	CategoryInsurance     = "Assurances"
)

// Defaults shared by the engine and its callers
const (
	DefaultIntervalDays = 30
	DefaultHorizonDays  = 90
)

// File permissions
const (
	PermissionConfigFile = 0600
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)
