package route

// Test-only exports for internal functions.
var (
	NormalizePath  = normalizePath
	JoinPath       = joinPath
	TypeToSchema   = typeToSchema
	JSONFieldName  = jsonFieldName
	StatusToString = statusToString
)
