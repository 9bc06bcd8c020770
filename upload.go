package main

import (
	"glass/camera"
	"glass/link"
)

// photoUpload owns one in-flight photo: the loaned frame plus the
// chunk cursor walking it. The scheduler sends exactly one chunk per
// tick; the frame is released when the terminal marker has gone out
// or the upload is abandoned.
type photoUpload struct {
	cam    camera.Camera
	frame  *camera.Frame
	cursor *link.Cursor
	total  int
	sent   int
}

func newPhotoUpload(cam camera.Camera, frame *camera.Frame) *photoUpload {
	cursor := link.NewCursor(frame.Data)
	return &photoUpload{
		cam:    cam,
		frame:  frame,
		cursor: cursor,
		total:  cursor.Remaining(),
	}
}

// SendNext pushes one payload through the transport. Returns done=true
// once the terminal marker has been sent and the frame released. A
// send error abandons the upload and also releases the frame; partial
// photos are the host's problem to discard.
func (u *photoUpload) SendNext(t link.Transport) (done bool, err error) {
	payload := u.cursor.Next()
	if payload == nil {
		u.release()
		return true, nil
	}
	if err := t.Send(link.PhotoData, payload); err != nil {
		u.release()
		return true, err
	}
	u.sent++
	if u.cursor.Done() {
		u.release()
		return true, nil
	}
	return false, nil
}

// Abandon drops the upload without sending more chunks.
func (u *photoUpload) Abandon() {
	u.release()
}

func (u *photoUpload) Progress() (sent, total int) {
	return u.sent, u.total
}

func (u *photoUpload) release() {
	if u.frame != nil {
		u.cam.Release(u.frame)
		u.frame = nil
	}
}
