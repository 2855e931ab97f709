// Package client contains the HTTP clients for the getfit backends.
//
// # Overview
//
//  1. AuthClient: login, register, refresh, validate and logout against the
//     auth service.
//  2. UsersClient: profile read/update and fitness summary, also on the auth
//     service.
//  3. NutritionClient: food search, barcode lookup, diary and summaries on the
//     nutrition service.
//
// All three share one transport: JSON bodies, a request timeout enforced
// through the context, an X-Request-ID header per request, and a circuit
// breaker that opens after repeated transport failures. HTTP error statuses
// never open the breaker.
//
// # Error Handling
//
// Every failure is a *common.Error. Match the kind with errors.Is:
// common.ErrNetworkFailure, common.ErrTimeout, common.ErrAuthenticationRequired,
// common.ErrBackend, common.ErrUnknownHTTP, common.ErrValidation.
// Error() returns a message suitable for display.
//
// Nothing here retries or refreshes tokens on its own.
package client
