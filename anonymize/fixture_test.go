package anonymize

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

const fixtureSOPInstanceUID = "1.2.826.0.1.3680043.2.1125.1"

func mustElement(t *testing.T, tg tag.Tag, data interface{}) *dicom.Element {
	t.Helper()

	elem, err := dicom.NewElement(tg, data)
	require.NoError(t, err)

	return elem
}

// writeFixture writes a small explicit VR little endian CT header to path,
// leaving out any tag listed in without.
func writeFixture(t *testing.T, path string, without ...tag.Tag) {
	t.Helper()

	skip := make(map[tag.Tag]struct{})
	for _, tg := range without {
		skip[tg] = struct{}{}
	}

	all := []*dicom.Element{
		mustElement(t, tag.FileMetaInformationVersion, []byte{0x00, 0x01}),
		mustElement(t, tag.MediaStorageSOPClassUID, []string{"1.2.840.10008.5.1.4.1.1.2"}),
		mustElement(t, tag.MediaStorageSOPInstanceUID, []string{fixtureSOPInstanceUID}),
		mustElement(t, tag.TransferSyntaxUID, []string{"1.2.840.10008.1.2.1"}),
		mustElement(t, tag.Modality, []string{"CT"}),
		mustElement(t, tag.InstitutionName, []string{"General Hospital"}),
		mustElement(t, tag.StudyDescription, []string{"CHEST"}),
		mustElement(t, tag.PatientName, []string{"Doe^John"}),
		mustElement(t, tag.PatientID, []string{"PID12345"}),
		mustElement(t, tag.PatientBirthDate, []string{"19700101"}),
		mustElement(t, tag.StudyID, []string{"42"}),
	}

	ds := dicom.Dataset{}
	for _, elem := range all {
		if _, ok := skip[elem.Tag]; ok {
			continue
		}
		ds.Elements = append(ds.Elements, elem)
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, dicom.Write(f, ds))
}

func reparse(t *testing.T, path string) dicom.Dataset {
	t.Helper()

	ds, err := dicom.ParseFile(path, nil)
	require.NoError(t, err)

	return ds
}

// stringOf returns the single string value of tg, without the padding the
// writer adds to odd-length values.
func stringOf(t *testing.T, ds dicom.Dataset, tg tag.Tag) string {
	t.Helper()

	elem, err := ds.FindElementByTag(tg)
	require.NoError(t, err, tg.String())

	strs, ok := elem.Value.GetValue().([]string)
	require.True(t, ok, tg.String())
	require.Len(t, strs, 1, tg.String())

	return strings.TrimRight(strs[0], " \x00")
}
