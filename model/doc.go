// Package model defines the provider-agnostic generation capability used by
// golamp invokers and the evaluation harness.
//
// Core goals:
//   - One interface covering free-text and schema-validated object generation
//   - Normalized token usage accounting (TokenUsage)
//   - A single explicit Settings struct forwarded to providers, with all
//     defaults owned by the provider
//   - Lightweight mocking for tests (MockModel)
//
// Providers (e.g. OpenAI, Anthropic) implement the Model interface from this
// package so higher layers (lamp, evaluation) remain decoupled from vendor SDKs.
package model
