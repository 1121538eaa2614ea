package api

// PlatformType identifies the console deployment flavor
type PlatformType string

const (
	PlatformCloud      PlatformType = "cloud"
	PlatformEnterprise PlatformType = "enterprise"
	PlatformOpenSource PlatformType = "opensource"
)

// PlatformSettings is returned by GET /platformsettings/settings
type PlatformSettings struct {
	PlatformType PlatformType `json:"PLATFORM_TYPE"`
}
