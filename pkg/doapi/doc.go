// Package doapi provides types, interfaces, and helpers for working with the
// DigitalOcean v2 REST API.
//
// # Overview
//
// The doapi package defines the domain types (Droplet, Region, Size, Image,
// SSHKey, Account, Action) and the interfaces for resource-oriented clients
// (DropletsClient, DropletActionsClient, ...). A concrete implementation is
// provided by the doclient package, which wires configuration, transport and
// the credential store.
//
//	store := auth.NewCredentialStore(auth.NewMemoryPersister())
//	_ = store.SetCredential(ctx, token, false)
//
//	cli, err := doclient.New(&doapi.Config{}, store)
//	if err != nil { log.Fatal(err) }
//
//	droplets, err := cli.Droplets().List(ctx, 50)
//
// # Errors
//
// Every failure is one of four kinds: ErrMissingCredential (no token, no
// request sent), *TransportError (connectivity), *APIError (non-2xx response,
// message taken from the provider payload or synthesized from the status
// line) and *ValidationError (bad input caught locally). Resource clients wrap
// these with context; Message recovers the provider's text for display.
//
// # Fan-out
//
// Join runs independent requests concurrently with an all-or-nothing result,
// which the panel uses to load regions, sizes and images together.
package doapi
