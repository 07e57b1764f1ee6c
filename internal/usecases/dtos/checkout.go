package dtos

type CheckoutRequestDTO struct {
	CartCode string `json:"cart_code"`
	Gateway  string `json:"gateway"`
}

type CheckoutResponseDTO struct {
	Reference      string                 `json:"reference"`
	ApprovalURL    string                 `json:"approval_url,omitempty"`
	GatewayPayload map[string]interface{} `json:"gateway_payload,omitempty"`
}

// CallbackResponseDTO carries the three user-visible settlement outcomes. The
// texts stay distinct so the client UI can tell them apart.
type CallbackResponseDTO struct {
	Message    string `json:"message"`
	SubMessage string `json:"subMessage,omitempty"`
	Settled    bool   `json:"-"`
}
