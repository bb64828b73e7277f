// ABOUTME: Playback of reply audio through revocable clip handles
// ABOUTME: Provides Library (clip lifecycle) and Player (play/stop/done)
// Package playback turns reply audio bytes into playable clips and plays
// them on an output device.
//
// A Library hands out at most one live Clip at a time: creating a new clip
// releases the previous one, so repeated sessions never accumulate decoded
// audio. A released clip cannot be played.
//
// Example:
//
//	lib := playback.NewLibrary()
//	clip, err := lib.Create(replyBytes)
//	player := playback.NewPlayer(output.NewOto(), playback.DefaultConfig())
//	err = player.Play(ctx, clip)
//	<-player.Done()
package playback
