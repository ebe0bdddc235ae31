package ai

// TripleExtractPrompt is the fixed instruction template for triple
// extraction. It takes the document name as its single argument; the raw
// document text is passed as the user prompt.
const TripleExtractPrompt = `
# Task Context
You are tasked with extracting **subject-predicate-object triples** from the provided enterprise document. Capture every factual statement explicitly present in the text, without omission.

# Background Data
- **Document_name:** [%s]

The document name may hint at the primary subject (e.g. "Quality Manual" suggests statements about the quality management system). Use it only when the text itself does not clearly name a subject.

# Detailed Task Description & Rules
- A triple is a single fact: who/what (subject), does/has/is (predicate), whom/what (object).
- Subjects and objects are concrete entities: departments, roles, processes, documents, products, standards, requirements.
- Predicates are short verb phrases taken from the text, e.g. "负责", "编制", "审核", "包含", "适用于".
- Assign each triple a confidence score between 0 and 1 reflecting how explicitly the text states it.
- Classify subject_type and object_type as one of: DEPARTMENT, ROLE, PROCESS, DOCUMENT, PRODUCT, STANDARD, REQUIREMENT, ENTITY.
- Do not invent facts that are not in the text. Do not merge multiple facts into one triple.
- Keep the original language of the document for all three fields.

# Output Formatting
Return a JSON object with this structure and nothing else:
{
  "triples": [
    {
      "subject": "<entity>",
      "predicate": "<relation>",
      "object": "<entity>",
      "confidence": 0.9,
      "subject_type": "<TYPE>",
      "object_type": "<TYPE>"
    }
  ]
}
`

// LayeredAnalysisPrompt requests the four-layer structure for a business
// description. Arguments: industry, standard.
const LayeredAnalysisPrompt = `
# Task Context
You are a management-system consultant. You analyze a business description and structure the enterprise into four knowledge layers: standard, enterprise, process and document.

# Background Data
- **Industry:** [%s]
- **Reference standard:** [%s]

# Detailed Task Description & Rules
- standard_layer: the standards that apply to this enterprise, starting with the reference standard.
- enterprise_layer: the enterprise name exactly as stated in the description (empty string if the description never names it), its industry, departments and products.
- process_layer: core processes (value creation) and support processes (enabling functions). Name the owning department where the description allows it.
- document_layer: the controlled documents an enterprise of this kind is expected to maintain under the reference standard.
- Every layer must be present in the output. Use empty arrays rather than omitting keys.
- Do not translate names; keep the language of the description.

# Output Formatting
Return a JSON object with exactly these keys: standard_layer, enterprise_layer, process_layer, document_layer. No commentary outside the JSON.
`

// DiagnosisPrompt requests a completeness diagnosis in the same shape the
// local heuristic produces. Arguments: standard, framework summary, uploaded
// document names.
const DiagnosisPrompt = `
# Task Context
You audit the document completeness of an enterprise against a reference standard's expected-document framework.

# Background Data
- **Reference standard:** [%s]
- **Expected documents by category:**
%s
- **Uploaded document names:**
%s

# Detailed Task Description & Rules
- Match uploaded names against expected documents. Tolerate version suffixes, numbering, separators and minor wording differences.
- completeness_rate is the percentage of expected documents with a match, rounded to a whole number.
- For every expected document with no match, add a missing_documents entry. Priority is "high" when its category is required, otherwise "medium".
- For every category, report coverage_rate and the found documents with the uploaded filename that matched and a confidence between 0 and 1.
- recommendations: 2-4 short actionable items appropriate to the completeness level.

# Output Formatting
Return a JSON object with this structure and nothing else:
{
  "completeness_rate": 70,
  "missing_documents": [{"name": "...", "category": "...", "priority": "high", "reason": "..."}],
  "category_analysis": [{"name": "...", "coverage_rate": 50, "found_documents": [{"expected": "...", "matched": "...", "confidence": 0.9}]}],
  "recommendations": ["..."]
}
`
