package message

// Attachments returns the attachment parts found in parts, in depth-first
// pre-order. A part is emitted before its children are visited and siblings
// keep their order. Children of every part are visited, whether or not the
// part itself is an attachment.
func Attachments(parts []*Part) []*Part {
	result := []*Part{}

	stack := make([]*Part, 0, len(parts))
	stack = pushReversed(stack, parts)

	for len(stack) > 0 {
		part := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if part.IsAttachment() {
			result = append(result, part)
		}
		stack = pushReversed(stack, part.Parts)
	}

	return result
}

// pushReversed pushes parts so that the first one is popped first
func pushReversed(stack []*Part, parts []*Part) []*Part {
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] == nil {
			continue
		}
		stack = append(stack, parts[i])
	}
	return stack
}
