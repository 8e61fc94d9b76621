package domain

// Draft is the in-progress bundle a user assembles before submitting a
// generation: the uploaded image, an optional single edit, and the chosen
// animation, add-on and aspect ratio. It lives for one creation flow only.
type Draft struct {
	ImageBytes []byte
	MIMEType   string

	// Original upload, retained so one edit can be reverted.
	OriginalBytes []byte
	OriginalMIME  string

	Animation   *AnimationOption
	AddOn       *AnimationOption
	AspectRatio AspectRatio
}

// HasImage reports whether an image has been attached to the draft.
func (d *Draft) HasImage() bool {
	return d != nil && len(d.ImageBytes) > 0
}

// Edited reports whether the current image differs from the original upload.
func (d *Draft) Edited() bool {
	return d != nil && len(d.OriginalBytes) > 0
}

// ApplyEdit swaps in the edited image, keeping the original for one revert.
func (d *Draft) ApplyEdit(image []byte, mimeType string) {
	if !d.Edited() {
		d.OriginalBytes = d.ImageBytes
		d.OriginalMIME = d.MIMEType
	}
	d.ImageBytes = image
	d.MIMEType = mimeType
}

// RevertEdit restores the original upload. Only a single step is kept, so
// reverting twice is a no-op.
func (d *Draft) RevertEdit() {
	if !d.Edited() {
		return
	}
	d.ImageBytes = d.OriginalBytes
	d.MIMEType = d.OriginalMIME
	d.OriginalBytes = nil
	d.OriginalMIME = ""
}
