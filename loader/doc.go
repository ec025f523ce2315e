// SPDX-License-Identifier: EPL-2.0

// Package loader turns a sound location (path, sub-index, mode) into a
// playable resource.
//
// A Resource is created by Loader.Load and owned by whoever called it until
// Release. Depending on the Mode it keeps fully decoded PCM, the encoded
// bytes, or only the file name, and every Open returns a fresh audio.Source.
//
//	ld := loader.NewFileLoader(loader.WithRoot("media"), loader.WithMaxSounds(64))
//	res, err := ld.Load(ctx, "lines/contact.ogg", 0, loader.ModeCompressed|loader.ModeNonBlocking)
//	if err != nil {
//	    return err
//	}
//	defer res.Release()
//
//	if err := res.Wait(ctx); err != nil {
//	    return err
//	}
//	src, err := res.Open()
package loader
