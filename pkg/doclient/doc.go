// Package doclient provides the main entry point for creating DigitalOcean API clients.
//
// Basic usage:
//
//	store := auth.NewCredentialStore(nil)
//	_ = store.SetCredential(ctx, token, false)
//
//	client, err := doclient.New(ctx, &doapi.Config{}, store)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	droplets, err := client.Droplets().List(ctx, 50)
//
// An empty APIEndpoint selects https://api.digitalocean.com/v2.
package doclient
