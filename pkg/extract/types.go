package extract

// ServiceInfo is the structural model of one service-like class. It is the
// unit of comparison for every downstream analyzer. Identity is the absolute
// file path; instances are never mutated after extraction.
type ServiceInfo struct {
	Path       string          `json:"path"`
	Name       string          `json:"name"`
	Group      string          `json:"group"`
	Methods    []MethodInfo    `json:"methods"`
	Interfaces []InterfaceInfo `json:"interfaces"`
	Imports    []string        `json:"imports"`
	Exports    []string        `json:"exports"`
	Lines      int             `json:"lines"`
	Complexity int             `json:"complexity"`
}

// MethodInfo describes one method of a service class.
type MethodInfo struct {
	Name       string      `json:"name"`
	Signature  string      `json:"signature"`
	Params     []Parameter `json:"params"`
	ReturnType string      `json:"return_type"`
	Async      bool        `json:"async"`
	StartLine  int         `json:"start_line"`
	EndLine    int         `json:"end_line"`
	Body       string      `json:"-"`
}

// Parameter is one parsed method parameter.
type Parameter struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Optional bool   `json:"optional"`
	Default  string `json:"default,omitempty"`
}

// InterfaceInfo describes an interface declared in a service file.
type InterfaceInfo struct {
	Name string `json:"name"`
	Line int    `json:"line"`
}

// MethodNames returns the set of method names as a map for overlap checks.
func (s *ServiceInfo) MethodNames() map[string]bool {
	names := make(map[string]bool, len(s.Methods))
	for _, m := range s.Methods {
		names[m.Name] = true
	}
	return names
}

// MethodByName returns the first method with the given name, or nil.
func (s *ServiceInfo) MethodByName(name string) *MethodInfo {
	for i := range s.Methods {
		if s.Methods[i].Name == name {
			return &s.Methods[i]
		}
	}
	return nil
}

// InterfaceNames returns the set of declared interface names.
func (s *ServiceInfo) InterfaceNames() map[string]bool {
	names := make(map[string]bool, len(s.Interfaces))
	for _, iface := range s.Interfaces {
		names[iface.Name] = true
	}
	return names
}

// ImportSet returns the set of import specifiers.
func (s *ServiceInfo) ImportSet() map[string]bool {
	set := make(map[string]bool, len(s.Imports))
	for _, imp := range s.Imports {
		set[imp] = true
	}
	return set
}
