package queue

// FileRef points at one uploaded document in object storage.
type FileRef struct {
	ID      string `json:"id"`
	FileKey string `json:"file_key"`
}

// IngestMsg requests triple extraction over a batch of documents.
type IngestMsg struct {
	Message       string    `json:"message"`
	CorrelationID string    `json:"correlation_id"`
	EnterpriseID  string    `json:"enterprise_id"`
	Files         []FileRef `json:"files"`
}

// AnalyzeMsg requests a layered analysis of a business description.
type AnalyzeMsg struct {
	Message       string `json:"message"`
	CorrelationID string `json:"correlation_id"`
	Description   string `json:"description"`
	Industry      string `json:"industry"`
	Standard      string `json:"standard"`
}

// DiagnoseMsg requests a document completeness diagnosis.
type DiagnoseMsg struct {
	Message       string   `json:"message"`
	CorrelationID string   `json:"correlation_id"`
	EnterpriseID  string   `json:"enterprise_id"`
	Standard      string   `json:"standard"`
	UploadedNames []string `json:"uploaded_names"`
	UseAI         bool     `json:"use_ai"`
}
