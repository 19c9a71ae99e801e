// Package auditapi implements the client half of the document audit exchange:
// building the single outbound request, performing it without retries, and
// classifying the response into the outcome taxonomy consumed by the
// orchestration service.
package auditapi
