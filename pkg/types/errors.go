package types

import "errors"

var (
	// ErrMissingReferenceData signals that a required reference table
	// (tariffs, catalog, assumptions) is absent. Engines degrade to zeroed
	// results instead of failing; callers must check for placeholder outputs.
	ErrMissingReferenceData = errors.New("missing reference data")

	// ErrMalformedReferenceData signals reference data that is present but
	// unparseable (invalid tier ranges, bad JSON). Unlike missing data this is
	// a data-integrity bug and is propagated as a hard failure.
	ErrMalformedReferenceData = errors.New("malformed reference data")

	// ErrRemoteService covers network, auth and rate-limit failures from the
	// LLM, geocoding or irradiance boundaries. Never retried in the core.
	ErrRemoteService = errors.New("remote service failure")

	// ErrResponseParse signals that a remote service answered but the payload
	// did not conform to the expected schema. Kept separate from
	// ErrRemoteService so callers can tell "service down" from "service
	// misbehaving".
	ErrResponseParse = errors.New("remote response parse failure")
)
