/*
Package learner-sheets synchronises a roster of learner credentials stored as a Google Sheets worksheet with the
credential tables of a relational database.

learner-sheets can be used from the command line but is really intended to be run from a scheduled task to keep the
credential tables up to date and to generate the CSV files used for learner account provisioning.

learner-sheets supports the following commands:

  - sync, to load the worksheet into the master credentials table, run the credential stored procedures and export
    the result tables to timestamped CSV files
  - get, to download the learner roster worksheet as a CSV file
  - compare, to list the worksheet records that are not yet in the master credentials table
  - export, to export the result tables to timestamped CSV files
  - version, to display the current version
*/
package sheets
