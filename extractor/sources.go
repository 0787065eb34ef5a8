package extractor

import "strings"

// The submission surface accepts channels and playlists in several shapes:
// full URLs, @handles, bare channel ids, bare playlist ids. These helpers
// normalize them into the URLs the extraction tool expects.

// ChannelVideosURL resolves a channel reference to its videos-tab URL.
func ChannelVideosURL(ref string) string {
	url := ref
	switch {
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
	case strings.HasPrefix(ref, "@"):
		url = "https://www.youtube.com/" + ref
	default:
		url = "https://www.youtube.com/channel/" + ref
	}
	if !strings.HasSuffix(url, "/videos") {
		url = strings.TrimSuffix(url, "/") + "/videos"
	}
	return url
}

// PlaylistURL resolves a playlist reference to a playlist URL.
func PlaylistURL(ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return "https://www.youtube.com/playlist?list=" + ref
}

// VideoURL resolves a video reference to a watch URL.
func VideoURL(ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return "https://www.youtube.com/watch?v=" + ref
}
