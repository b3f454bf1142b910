package library

type Config struct {
	Libraries []Entry `yaml:"libraries"`
}

type Entry struct {
	Name    string `yaml:"name"`
	Enabled *bool  `yaml:"enabled"` // nil means enabled
}

func (e Entry) IsEnabled() bool {
	return e.Enabled == nil || *e.Enabled
}

// EnabledNames returns the enabled library names in file order.
func (c *Config) EnabledNames() []string {
	names := make([]string, 0, len(c.Libraries))
	for _, entry := range c.Libraries {
		if entry.IsEnabled() {
			names = append(names, entry.Name)
		}
	}
	return names
}
