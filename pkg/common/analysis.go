package common

// LayeredAnalysis is the four-layer structure returned by the business
// description analysis. Every sub-slice is guaranteed non-nil after
// Normalize; the model may omit whole layers and they are defaulted to
// empty structures rather than left undefined.
type LayeredAnalysis struct {
	StandardLayer   StandardLayer   `json:"standard_layer" jsonschema_description:"Standards and norms that apply to the enterprise"`
	EnterpriseLayer EnterpriseLayer `json:"enterprise_layer" jsonschema_description:"The enterprise itself with its organizational structure"`
	ProcessLayer    ProcessLayer    `json:"process_layer" jsonschema_description:"Core and supporting business processes"`
	DocumentLayer   DocumentLayer   `json:"document_layer" jsonschema_description:"Documents the enterprise is expected to maintain"`
}

// StandardLayer lists the standards the enterprise operates under.
type StandardLayer struct {
	Standards []StandardInfo `json:"standards" jsonschema_description:"Applicable standards, e.g. ISO 9001"`
}

// StandardInfo describes a single standard or norm.
type StandardInfo struct {
	Name        string `json:"name" jsonschema_description:"Full name of the standard"`
	Code        string `json:"code" jsonschema_description:"Short code, e.g. ISO9001"`
	Description string `json:"description" jsonschema_description:"What the standard covers"`
}

// EnterpriseLayer describes the business entity itself.
type EnterpriseLayer struct {
	Name        string   `json:"name" jsonschema_description:"Name of the enterprise, empty if not stated"`
	Industry    string   `json:"industry" jsonschema_description:"Industry the enterprise operates in"`
	Departments []string `json:"departments" jsonschema_description:"Organizational departments"`
	Products    []string `json:"products" jsonschema_description:"Products or services offered"`
}

// ProcessLayer splits business processes into core and supporting ones.
type ProcessLayer struct {
	CoreProcesses    []ProcessInfo `json:"core_processes" jsonschema_description:"Value-creating processes"`
	SupportProcesses []ProcessInfo `json:"support_processes" jsonschema_description:"Supporting processes"`
}

// ProcessInfo describes a single business process.
type ProcessInfo struct {
	Name        string `json:"name" jsonschema_description:"Name of the process"`
	Description string `json:"description" jsonschema_description:"What the process does"`
	Owner       string `json:"owner" jsonschema_description:"Department responsible for the process"`
}

// DocumentLayer lists documents the enterprise should maintain.
type DocumentLayer struct {
	Documents []DocumentInfo `json:"documents" jsonschema_description:"Expected controlled documents"`
}

// DocumentInfo describes a single expected document.
type DocumentInfo struct {
	Name     string `json:"name" jsonschema_description:"Document name"`
	Category string `json:"category" jsonschema_description:"Document category"`
}

// Normalize replaces every nil sub-slice with an empty one so downstream
// consumers can iterate without nil checks. It never removes data.
func (a *LayeredAnalysis) Normalize() {
	if a.StandardLayer.Standards == nil {
		a.StandardLayer.Standards = []StandardInfo{}
	}
	if a.EnterpriseLayer.Departments == nil {
		a.EnterpriseLayer.Departments = []string{}
	}
	if a.EnterpriseLayer.Products == nil {
		a.EnterpriseLayer.Products = []string{}
	}
	if a.ProcessLayer.CoreProcesses == nil {
		a.ProcessLayer.CoreProcesses = []ProcessInfo{}
	}
	if a.ProcessLayer.SupportProcesses == nil {
		a.ProcessLayer.SupportProcesses = []ProcessInfo{}
	}
	if a.DocumentLayer.Documents == nil {
		a.DocumentLayer.Documents = []DocumentInfo{}
	}
}
