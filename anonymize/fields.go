package anonymize

import (
	"github.com/suyashkumar/dicom/pkg/tag"
)

// Replacement values. They are deliberately not configurable.
const (
	PatientNameValue      = "puripuri^2100"
	PatientBirthDateValue = "200000401"
	InstitutionNameValue  = "FooBar Hospital"

	// PatientIDLogged is what the log line reports for Patient ID. The value
	// actually written is PatientNameValue.
	PatientIDLogged = "0000123456"
)

// field is one attribute that gets overwritten. value is called once per file,
// in field order, which is what pins the random draw for the Study ID to
// exactly one per file.
type field struct {
	name string
	tag  tag.Tag

	// value produces the value that is written.
	value func() string

	// logged, if set, is reported in the log line in place of the written
	// value.
	logged string
}

func (a *Anonymizer) fields() []field {
	constant := func(v string) func() string {
		return func() string { return v }
	}

	return []field{
		{name: "Patient Name", tag: tag.PatientName, value: constant(PatientNameValue)},
		// TODO: confirm whether Patient ID is meant to receive PatientIDLogged
		// rather than the Patient Name value before changing what is written.
		{name: "Patient ID", tag: tag.PatientID, value: constant(PatientNameValue), logged: PatientIDLogged},
		{name: "Patient Birth Date", tag: tag.PatientBirthDate, value: constant(PatientBirthDateValue)},
		{name: "Study ID", tag: tag.StudyID, value: a.studyIDs.Next},
		{name: "Institution Name", tag: tag.InstitutionName, value: constant(InstitutionNameValue)},
	}
}
