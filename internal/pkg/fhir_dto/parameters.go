package fhir_dto

type Parameters struct {
	ResourceType string      `json:"resourceType"`
	ID           string      `json:"id,omitempty"`
	Meta         *Meta       `json:"meta,omitempty"`
	Parameter    []Parameter `json:"parameter,omitempty"`
}

type Parameter struct {
	Name           string      `json:"name"`
	ValueString    string      `json:"valueString,omitempty"`
	ValueCode      string      `json:"valueCode,omitempty"`
	ValueCanonical string      `json:"valueCanonical,omitempty"`
	ValueInteger   *int        `json:"valueInteger,omitempty"`
	ValueReference *Reference  `json:"valueReference,omitempty"`
	Part           []Parameter `json:"part,omitempty"`
}
