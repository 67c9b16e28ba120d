// Package eloqua provides a Go SDK for the Oracle Eloqua marketing
// automation platform.
//
// It covers the Bulk 2.0 API in full, building import and export jobs,
// resolving field and filter names against an instance, creating
// definitions and syncs, and moving record data, plus a thin session
// layer over the REST 2.0 API.
//
// # Basic Usage
//
// Create a client with instance credentials, then discover the
// instance's API endpoints:
//
//	client, err := eloqua.NewClient(
//		eloqua.WithCredentials("MyCompany", "My.User", "password"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	ctx := context.Background()
//	if err := client.Connect(ctx); err != nil {
//		log.Fatal(err)
//	}
//
// # Building an Export
//
//	job, err := bulk.NewExport(bulk.Contacts)
//	if err != nil {
//		log.Fatal(err)
//	}
//	svc := client.Bulk()
//	if err := svc.AddFields(ctx, job, "C_EmailAddress", "C_FirstName"); err != nil {
//		log.Fatal(err)
//	}
//	if err := svc.FilterExistsList(ctx, job, bulk.ListRef{Name: "My Contact List"}); err != nil {
//		log.Fatal(err)
//	}
//	def, err := svc.CreateDefinition(ctx, job)
//	if err != nil {
//		log.Fatal(err)
//	}
//	sync, err := svc.CreateSync(ctx, def.URI)
//	if err != nil {
//		log.Fatal(err)
//	}
//	sync, err = svc.WaitForSync(ctx, sync.URI, bulk.WaitOptions{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	records, err := svc.GetSyncedData(ctx, sync.URI)
//
// # Configuration Options
//
// The client supports various configuration options:
//
//	client, err := eloqua.NewClient(
//		eloqua.WithCredentials("MyCompany", "My.User", "password"),
//		eloqua.WithOAuth("client-id", "client-secret"),
//		eloqua.WithTimeout(60 * time.Second),
//		eloqua.WithRetry(eloqua.RetryConfig{
//			MaxRetries: 3,
//			BaseDelay:  time.Second,
//		}),
//		eloqua.WithDebug(true),
//	)
//
// Credentials can also come from the environment (and a .env file) via
// NewClientFromEnv.
//
// # Error Handling
//
// Remote failures carry their HTTP status and parsed message and can be
// inspected by kind:
//
//	err := svc.AddFields(ctx, job, "C_EmailAddress")
//	if err != nil {
//		if eloqua.IsAuthenticationError(err) {
//			log.Fatal("check credentials")
//		} else if eloqua.IsRateLimitError(err) {
//			var rateLimitErr *eloqua.RateLimitError
//			if errors.As(err, &rateLimitErr) {
//				fmt.Printf("rate limited, retry after %ds\n", rateLimitErr.GetRetryAfter())
//			}
//		} else if bulk.IsFieldNotFound(err) {
//			fmt.Println("no such field on this instance")
//		} else {
//			log.Fatal(err)
//		}
//	}
//
// Job construction problems (bad object kinds, missing parent IDs,
// ambiguous references) surface as bulk.ConfigError before any request
// is made.
package eloqua
