package entity

// Default preference values used when the config file or a key is missing.
const (
	DefaultScheduledTime = "18:00"
	DefaultAutoStart     = false
	DefaultRepeat        = true
)

// Preference is the user's persisted shutdown settings.
type Preference struct {
	ScheduledTime string
	AutoStart     bool
	Repeat        bool
	// Stored is true when the values were read from an existing file.
	Stored bool
}

// DefaultPreference returns the settings of a fresh install.
func DefaultPreference() *Preference {
	return &Preference{
		ScheduledTime: DefaultScheduledTime,
		AutoStart:     DefaultAutoStart,
		Repeat:        DefaultRepeat,
	}
}
