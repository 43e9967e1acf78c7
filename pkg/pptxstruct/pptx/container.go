package pptx

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/richardlehane/mscfb"
	"github.com/richardlehane/msoleps"
)

// cfbSignature starts every OLE compound file. Encrypted OOXML files and
// legacy .ppt files are compound files rather than zip packages.
var cfbSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// sniffContainer rejects compound files with a specific error. Zip packages pass through.
func sniffContainer(data []byte) error {
	if !bytes.HasPrefix(data, cfbSignature) {
		return nil
	}

	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return errors.Wrap(ErrInvalidFormat, err.Error())
	}

	var encrypted, legacy bool
	var title string
	props := msoleps.New()
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		switch entry.Name {
		case "EncryptedPackage", "EncryptionInfo":
			encrypted = true
		case "PowerPoint Document":
			legacy = true
		}
		if msoleps.IsMSOLEPS(entry.Initial) {
			if perr := props.Reset(doc); perr != nil {
				continue
			}
			for _, prop := range props.Property {
				if prop.Name == "Title" {
					title = prop.String()
				}
			}
		}
	}

	switch {
	case encrypted:
		return ErrEncrypted
	case legacy && title != "":
		return errors.Wrapf(ErrLegacyFormat, "%q", title)
	case legacy:
		return ErrLegacyFormat
	}
	return errors.Wrap(ErrInvalidFormat, "compound file without a presentation")
}
