package platform

import "slices"

// Dependency is a helper tool that is missing and how to get it.
type Dependency struct {
	Name        string
	WhyNeeded   string
	InstallCmd  string
	Note        string
	Alternative string
	Optional    bool
}

// Capabilities summarizes what the machine offers for injection and
// window control.
type Capabilities struct {
	OS            string
	DisplayServer string
	Desktop       string
	Tools         map[string]bool

	Uinput        bool
	UinputMessage string

	Missing []Dependency
	report  string
}

// Has reports whether tool was found on PATH.
func (c Capabilities) Has(tool string) bool {
	return c.Tools[tool]
}

// MissingTools lists absent helper tools with install hints.
func (c Capabilities) MissingTools() []Dependency {
	return slices.Clone(c.Missing)
}

// RequiredMissing is MissingTools without the optional entries.
func (c Capabilities) RequiredMissing() []Dependency {
	return slices.DeleteFunc(c.MissingTools(), func(d Dependency) bool { return d.Optional })
}

// Report is a human-readable block describing MissingTools, or "".
func (c Capabilities) Report() string {
	return c.report
}
