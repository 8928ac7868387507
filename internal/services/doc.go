// Package services wraps the upstream Spotify Web API behind the [Service]
// interface.
//
// The package owns three concerns:
//
//  1. Authorization URLs for the redirect-based login flow.
//  2. The token lifecycle: authorization-code exchange and refresh-token
//     grants, both via [golang.org/x/oauth2] with Spotify's basic-auth
//     client credential style.
//  3. The currently-playing query, returning typed response structs.
//
// Every outbound call takes a [context.Context], runs under a client timeout,
// and passes through a [golang.org/x/time/rate] limiter so a display polling
// on a short interval cannot exhaust the API quota.
//
// The service carries no session state. Access tokens are supplied per call
// by the layers that own the session store.
package services
