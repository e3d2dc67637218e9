package shared

// FlashSuccess queues a success notification on the session.
func FlashSuccess(sess *Session, message string) {
	if sess == nil {
		return
	}
	sess.AddFlash(FlashMessage{Kind: "success", Message: message})
}

// FlashError queues an error notification on the session.
func FlashError(sess *Session, message string) {
	if sess == nil {
		return
	}
	sess.AddFlash(FlashMessage{Kind: "error", Message: message})
}
