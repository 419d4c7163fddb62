// Package tracksim embeds the track similarity engine in-process.
//
// The client loads a catalog snapshot once, normalizes popularity, tempo
// and loudness, and builds a nearest-neighbor index over the 14 audio
// features. Queries are read-only and safe for concurrent use.
//
//	client, err := tracksim.Open(ctx,
//	    tracksim.WithCatalogFile("tracks.parquet"),
//	    tracksim.WithArtistFilter("justin bieber"),
//	)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	recs, _ := client.Similar(ctx, "4iV5W9uYEdYUVa79Axb7Rh", 10)
//	for _, r := range recs {
//	    fmt.Println(r.Name, r.Artists, r.Distance)
//	}
//
// An optional Valkey cache keeps primary-path results across processes
// serving the same snapshot:
//
//	tracksim.WithValkeyCache("localhost:6379", "", time.Hour)
package tracksim
