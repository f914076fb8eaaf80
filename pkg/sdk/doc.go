// Package matchdex provides a Go client for the matchdex hybrid search
// service. Results stream back as they are read off the wire: one ranked
// hit at a time, with a terminal metadata record after the last hit.
//
//	client := matchdex.New("http://localhost:8080",
//	    matchdex.WithAPIKey("secret"),
//	)
//	stream, _ := client.Search(ctx, matchdex.SearchRequest{
//	    QueryText:  "deep learning engineer shenzhen",
//	    MatchCount: 10,
//	})
//	defer stream.Close()
//	for stream.Next() {
//	    hit := stream.Hit()
//	    fmt.Println(hit.RecordID, hit.CombinedScore)
//	}
//	if err := stream.Err(); err != nil {
//	    log.Fatal(err)
//	}
//	meta := stream.Metadata()
package matchdex
