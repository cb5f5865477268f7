// Package fonts resolves the faces used to letter bingo cells.
//
// # Tiers
//
// Cell text is drawn at one of three sizes, [Large], [Medium] and [Small].
// A [Set] holds a normal and a bold face for each tier, so emphasized
// tokens can be measured and drawn in their own weight.
//
// # Resolution
//
// [Resolve] walks an ordered list of [Source] values and returns the first
// set that loads. The default chain tries the configured TrueType families
// (Goudy Old Style, then Arial), then the Go fonts embedded in the binary,
// then a fixed-size bitmap face:
//
//	set, err := fonts.Resolve(fonts.DefaultSources(nil), fonts.DefaultSizes, logger)
//	if err != nil {
//	    return err
//	}
//	defer set.Close()
//
// Family files are taken as paths when they exist and are otherwise looked
// up in the system font directories. Fallbacks are logged at debug level
// only. The bitmap face cannot be resized, so [Set.Demote] is a no-op for
// it and long text may overflow its cell.
package fonts
