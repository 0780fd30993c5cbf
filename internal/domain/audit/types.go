// Package audit holds the two field transformations the store adapters
// apply when building the append-only log rows (MtaConnectionLog,
// MtaMessageLog): client-IP redaction and subject extraction.
package audit

import "strings"

// RedactedIP is substituted for client_ip when privacy redaction is
// enabled (LOG_REDACT_IPS, §6).
const RedactedIP = "[REDACTED]"

// RedactIP returns ip unchanged, or RedactedIP when redact is true. It
// mirrors the teacher lineage's keyword-redaction helper, narrowed to the
// single field this domain ever redacts.
func RedactIP(ip string, redact bool) string {
	if redact {
		return RedactedIP
	}
	return ip
}

// ExtractSubject pulls the Subject header's value out of an ordered
// header list, returning "" if absent. Per §9, headers are otherwise
// opaque. The result is truncated to 998 bytes (the SMTP line limit) per
// the implementation freedom noted in §9.
func ExtractSubject(headers [][2]string) string {
	for _, h := range headers {
		if strings.EqualFold(h[0], "Subject") {
			subject := h[1]
			if len(subject) > 998 {
				subject = subject[:998]
			}
			return subject
		}
	}
	return ""
}
