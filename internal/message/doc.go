// Package message holds the typed mail model shared by every mail source
// and the attachment walker that runs over it.
//
// Sources convert their API or file representation into Message and Part
// once, when the message is fetched. Code downstream works on the typed
// tree and never checks raw field presence again.
//
// Example:
//
//	msg, err := source.GetFull(ctx, ref.ID)
//	if err != nil {
//	    return err
//	}
//	for _, part := range message.Attachments(msg.Parts) {
//	    fmt.Println(part.Filename)
//	}
package message
