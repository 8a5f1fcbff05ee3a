package commands

const (
	_etc = `C:\ProgramData\learner-sheets`
	_var = `C:\ProgramData\learner-sheets\var`

	DEFAULT_WORKDIR     = _var
	DEFAULT_CONFIG      = _etc + `\learner-sheets.yaml`
	DEFAULT_CREDENTIALS = `C:\api key\google_cloud_key.json`
	DEFAULT_EXPORTS     = `G:\My Drive`
)
