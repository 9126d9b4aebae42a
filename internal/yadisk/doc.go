// Package yadisk resolves Yandex Disk public share links into direct
// download URLs.
//
// A public link such as https://disk.yandex.ru/d/V47MEP5hZ3U1kg cannot be
// downloaded directly. The public resources API answers
//
//	GET <api>?public_key=<urlencoded link>
//
// with a JSON body whose href field is a one-off direct download URL. For a
// shared folder the href serves the folder as a zip archive.
//
// # Usage
//
//	resolver := yadisk.NewResolver(client, config.DefaultAPIURL)
//	href, err := resolver.Resolve(ctx, "https://disk.yandex.ru/d/V47MEP5hZ3U1kg")
//	if errors.Is(err, yadisk.ErrResolution) {
//	    // report and decide whether to continue
//	}
//
// Resolution is attempted once. Network failures, non-200 statuses and
// malformed bodies all wrap ErrResolution.
package yadisk
