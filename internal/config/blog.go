package config

import "git.home.luguber.info/inful/sitebuilder/internal/foundation/normalization"

// DateSource selects where a blog entry's publication date is read from.
type DateSource string

const (
	// DateSourceDirectory reads the date from the entry's parent directory name.
	DateSourceDirectory DateSource = "directory"
	// DateSourceMetadata reads the date from the entry's metadata block.
	DateSourceMetadata DateSource = "metadata"
)

var dateSourceNormalizer = normalization.NewNormalizer(map[string]DateSource{
	"directory": DateSourceDirectory,
	"dir":       DateSourceDirectory,
	"metadata":  DateSourceMetadata,
	"meta":      DateSourceMetadata,
}, DateSourceDirectory)

// NormalizeDateSource maps a raw string onto a DateSource.
func NormalizeDateSource(raw string) (DateSource, error) {
	return dateSourceNormalizer.NormalizeWithError(raw)
}

// AssetPolicy decides whether a missing per-entry asset folder fails the build.
type AssetPolicy string

const (
	AssetPolicyOptional AssetPolicy = "optional"
	AssetPolicyRequired AssetPolicy = "required"
)

var assetPolicyNormalizer = normalization.NewNormalizer(map[string]AssetPolicy{
	"optional": AssetPolicyOptional,
	"required": AssetPolicyRequired,
}, AssetPolicyOptional)

// NormalizeAssetPolicy maps a raw string onto an AssetPolicy.
func NormalizeAssetPolicy(raw string) (AssetPolicy, error) {
	return assetPolicyNormalizer.NormalizeWithError(raw)
}

// ThumbnailOrder decides which sequence position a thumbnail index follows.
type ThumbnailOrder string

const (
	// ThumbnailOrderDiscovery numbers thumbnails by discovery order.
	ThumbnailOrderDiscovery ThumbnailOrder = "discovery"
	// ThumbnailOrderSorted numbers thumbnails by chronological (sorted) order.
	ThumbnailOrderSorted ThumbnailOrder = "sorted"
)

var thumbnailOrderNormalizer = normalization.NewNormalizer(map[string]ThumbnailOrder{
	"discovery": ThumbnailOrderDiscovery,
	"sorted":    ThumbnailOrderSorted,
}, ThumbnailOrderDiscovery)

// NormalizeThumbnailOrder maps a raw string onto a ThumbnailOrder.
func NormalizeThumbnailOrder(raw string) (ThumbnailOrder, error) {
	return thumbnailOrderNormalizer.NormalizeWithError(raw)
}
