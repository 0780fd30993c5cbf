// Package wire holds the byte-exact JSON schemas for the gateway's two
// endpoints (§6) and the decode/translate step between them and the pure
// internal/domain/policy types.
package wire

import (
	"encoding/json"
	"fmt"

	"github.com/solawi-gate/listgate/internal/domain/policy"
)

// HookRequest is POST /mta-hook's request body, decoded field-for-field
// from §6's schema.
type HookRequest struct {
	Context  HookContext   `json:"context"`
	Envelope *HookEnvelope `json:"envelope"`
	Message  *HookMessage  `json:"message"`
}

type HookContext struct {
	Stage    string       `json:"stage"`
	Client   HookClient   `json:"client"`
	Server   HookServer   `json:"server"`
	Protocol HookProtocol `json:"protocol"`
	Queue    *HookQueue   `json:"queue,omitempty"`
}

type HookClient struct {
	IP                string  `json:"ip"`
	Port              int     `json:"port"`
	PTR               *string `json:"ptr"`
	HELO              *string `json:"helo"`
	ActiveConnections int     `json:"activeConnections"`
}

type HookServer struct {
	Name string `json:"name"`
	Port int    `json:"port"`
	IP   string `json:"ip"`
}

type HookProtocol struct {
	Version int `json:"version"`
}

type HookQueue struct {
	ID string `json:"id"`
}

type HookAddress struct {
	Address string `json:"address"`
}

type HookEnvelope struct {
	From HookAddress   `json:"from"`
	To   []HookAddress `json:"to"`
}

type HookMessage struct {
	Headers  [][2]string `json:"headers"`
	Contents string      `json:"contents"`
	Size     int         `json:"size"`
}

// HookResponse is POST /mta-hook's response body.
type HookResponse struct {
	Action        string               `json:"action"`
	Response      *HookResponseDetail  `json:"response"`
	Modifications []HookModification   `json:"modifications"`
}

type HookResponseDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type HookModification struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// knownStages is the closed set from §4.1; context.stage outside this set
// is the "unknown stage" error kind (§7).
var knownStages = map[string]policy.Stage{
	"connect": policy.StageConnect,
	"ehlo":    policy.StageEHLO,
	"mail":    policy.StageMail,
	"rcpt":    policy.StageRcpt,
	"data":    policy.StageData,
	"auth":    policy.StageAuth,
}

// ErrUnknownStage is returned by DecodeHookInput when context.stage is not
// one of the six known values.
var ErrUnknownStage = fmt.Errorf("wire: unknown stage")

// DecodeHookInput parses raw JSON into a policy.HookInput, the stage
// dispatch the engine reads. Malformed JSON is surfaced via the standard
// json error; an unrecognized stage returns ErrUnknownStage.
func DecodeHookInput(raw []byte) (policy.HookInput, error) {
	var req HookRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return policy.HookInput{}, fmt.Errorf("wire: malformed hook request: %w", err)
	}

	stage, ok := knownStages[req.Context.Stage]
	if !ok {
		return policy.HookInput{}, fmt.Errorf("%w: %q", ErrUnknownStage, req.Context.Stage)
	}

	in := policy.HookInput{
		Stage: stage,
		Client: policy.ClientInfo{
			IP:                req.Context.Client.IP,
			Port:              req.Context.Client.Port,
			ActiveConnections: req.Context.Client.ActiveConnections,
		},
		Server: policy.ServerInfo{
			Name: req.Context.Server.Name,
			Port: req.Context.Server.Port,
			IP:   req.Context.Server.IP,
		},
	}
	if req.Context.Client.PTR != nil {
		in.Client.PTR = *req.Context.Client.PTR
	}
	if req.Context.Client.HELO != nil {
		in.Client.HELO = *req.Context.Client.HELO
	}
	if req.Envelope != nil {
		in.Envelope.From = policy.Address{Address: req.Envelope.From.Address}
		for _, to := range req.Envelope.To {
			in.Envelope.To = append(in.Envelope.To, policy.Address{Address: to.Address})
		}
	}
	if req.Context.Queue != nil {
		in.Message.QueueID = req.Context.Queue.ID
	}
	if req.Message != nil {
		in.Message.Size = req.Message.Size
		for _, h := range req.Message.Headers {
			in.Message.Headers = append(in.Message.Headers, policy.Header{Name: h[0], Value: h[1]})
		}
	}

	return in, nil
}

// EncodeHookResponse translates a policy.Verdict into the wire response
// shape. SMTP code conventions: 250 implied (omitted) on accept, the
// verdict's own code for reject. It encodes verdicts only; the hook
// handler answers evaluation errors with a plain HTTP error status, not
// with an SMTP 451 response.
func EncodeHookResponse(v policy.Verdict) HookResponse {
	resp := HookResponse{Action: actionString(v.Outcome)}
	if v.Code != 0 {
		resp.Response = &HookResponseDetail{Code: v.Code, Message: v.Reason}
	}
	for _, m := range v.Modifications {
		resp.Modifications = append(resp.Modifications, HookModification{
			Type: m.Type, Name: m.Name, Value: m.Value,
		})
	}
	return resp
}

func actionString(o policy.Outcome) string {
	switch o {
	case policy.Reject:
		return "reject"
	case policy.Quarantine:
		return "quarantine"
	default:
		return "accept"
	}
}
