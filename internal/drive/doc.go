// Package drive uploads exported files to Google Drive.
//
// Each upload creates a new file, optionally inside a configured parent
// folder. Drive keeps files with equal names side by side, so repeated runs
// produce duplicates rather than replacing earlier uploads.
//
// Example usage:
//
//	client, err := drive.NewClient(ctx, "default", folderID, httpClient, metrics)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	id, err := client.Upload(ctx, "export/Mai_2024.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
package drive
