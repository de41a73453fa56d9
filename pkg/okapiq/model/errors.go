package model

// FailureKind enumerates the error taxonomy from spec §7. These never
// propagate as Go errors past an adapter or stage boundary; they are
// carried as data on Result/Failure values instead.
type FailureKind string

const (
	KindAdapterCredentialsMissing FailureKind = "adapter_credentials_missing"
	KindAdapterNetworkError       FailureKind = "adapter_network_error"
	KindAdapterRateLimited        FailureKind = "adapter_rate_limited"
	KindAdapterPayloadMalformed   FailureKind = "adapter_payload_malformed"
	KindNormalizationInvalid      FailureKind = "normalization_record_invalid"
	KindEnrichmentTimeout         FailureKind = "enrichment_timeout"
	KindEnrichmentError           FailureKind = "enrichment_error"
	KindScoringFeatureMissing     FailureKind = "scoring_feature_missing"
	KindPipelineEmptyResult       FailureKind = "pipeline_empty_result"
	KindPipelineUnexpectedError   FailureKind = "pipeline_unexpected_error"
)

// Failure is a structured, non-throwing error value.
type Failure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
	Source  SourceName  `json:"source,omitempty"`
}

func (f Failure) Error() string {
	return string(f.Kind) + ": " + f.Message
}

// NewFailure builds a Failure value.
func NewFailure(kind FailureKind, source SourceName, msg string) Failure {
	return Failure{Kind: kind, Message: msg, Source: source}
}
