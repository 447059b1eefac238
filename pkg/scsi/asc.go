/*
Copyright 2016 The GoStor Authors All rights reserved.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package scsi

var ascNames = map[SCSISubError]string{
	0x0000: "No Additional Sense Information",
	0x0001: "Filemark Detected",
	0x0002: "End-Of-Partition/Medium Detected",
	0x0003: "Setmark Detected",
	0x0004: "Beginning-Of-Partition/Medium Detected",
	0x0005: "End-Of-Data Detected",
	0x0006: "I/O Process Terminated",
	0x0011: "Audio Play Operation In Progress",
	0x0012: "Audio Play Operation Paused",
	0x0013: "Audio Play Operation Successfully Completed",
	0x0014: "Audio Play Operation Stopped Due To Error",
	0x0015: "No Current Audio Status To Return",
	0x0016: "Operation In Progress",
	0x0017: "Cleaning Requested",
	0x0100: "No Index/Sector Signal",
	0x0200: "No Seek Complete",
	0x0300: "Peripheral Device Write Fault",
	0x0301: "No Write Current",
	0x0302: "Excessive Write Errors",
	0x0400: "Logical Unit Not Ready, Cause Not Reportable",
	0x0401: "Logical Unit Is In Process Of Becoming Ready",
	0x0402: "Logical Unit Not Ready, Initializing Cmd. Required",
	0x0403: "Logical Unit Not Ready, Manual Intervention Required",
	0x0404: "Logical Unit Not Ready, Format In Progress",
	0x0405: "Logical Unit Not Ready, Rebuild In Progress",
	0x0406: "Logical Unit Not Ready, Recalculation In Progress",
	0x0407: "Logical Unit Not Ready, Operation In Progress",
	0x0408: "Logical Unit Not Ready, Long Write In Progress",
	0x0409: "Logical Unit Not Ready, Self-Test In Progress",
	0x040A: "Logical Unit Not Accessible, Asymmetric Access State Transition",
	0x040B: "Logical Unit Not Accessible, Target Port In Standby State",
	0x040C: "Logical Unit Not Accessible, Target Port In Unavailable State",
	0x0410: "Logical Unit Not Ready, Auxiliary Memory Not Accessible",
	0x0500: "Logical Unit Does Not Respond To Selection",
	0x0600: "No Reference Position Found",
	0x0700: "Multiple Peripheral Devices Selected",
	0x0800: "Logical Unit Communication Failure",
	0x0801: "Logical Unit Communication Time-Out",
	0x0802: "Logical Unit Communication Parity Error",
	0x0803: "Logical Unit Communication CRC Error (Ultra-DMA/32)",
	0x0804: "Unreachable Copy Target",
	0x0900: "Track Following Error",
	0x0901: "Tracking Servo Failure",
	0x0902: "Focus Servo Failure",
	0x0903: "Spindle Servo Failure",
	0x0904: "Head Select Fault",
	0x0A00: "Error Log Overflow",
	0x0B00: "Warning",
	0x0B01: "Warning - Specified Temperature Exceeded",
	0x0B02: "Warning - Enclosure Degraded",
	0x0C00: "Write Error",
	0x0C01: "Write Error - Recovered With Auto Reallocation",
	0x0C02: "Write Error - Auto Reallocation Failed",
	0x0C03: "Write Error - Recommend Reassignment",
	0x0C04: "Compression Check Miscompare Error",
	0x0C05: "Data Expansion Occurred During Compression",
	0x0C06: "Block Not Compressible",
	0x0C07: "Write Error - Recovery Needed",
	0x0C08: "Write Error - Recovery Failed",
	0x0C09: "Write Error - Loss Of Streaming",
	0x0C0A: "Write Error - Padding Blocks Added",
	0x0D00: "Error Detected By Third Party Temporary Initiator",
	0x0D01: "Third Party Device Failure",
	0x0D02: "Copy Target Device Not Reachable",
	0x0D03: "Incorrect Copy Target Device Type",
	0x0D04: "Copy Target Device Data Underrun",
	0x0D05: "Copy Target Device Data Overrun",
	0x1000: "ID CRC Or ECC Error",
	0x1100: "Unrecovered Read Error",
	0x1101: "Read Retries Exhausted",
	0x1102: "Error Too Long To Correct",
	0x1103: "Multiple Read Errors",
	0x1104: "Unrecovered Read Error - Auto Reallocate Failed",
	0x1105: "L-EC Uncorrectable Error",
	0x1106: "CIRC Unrecovered Error",
	0x1107: "Data Re-Synchronization Error",
	0x1108: "Incomplete Block Read",
	0x1109: "No Gap Found",
	0x110A: "Miscorrected Error",
	0x110B: "Unrecovered Read Error - Recommend Reassignment",
	0x110C: "Unrecovered Read Error - Recommend Rewrite The Data",
	0x110D: "De-Compression CRC Error",
	0x110E: "Cannot Decompress Using Declared Algorithm",
	0x110F: "Error Reading UPC/EAN Number",
	0x1110: "Error Reading ISRC Number",
	0x1111: "Read Error - Loss Of Streaming",
	0x1112: "Auxiliary Memory Read Error",
	0x1200: "Address Mark Not Found For ID Field",
	0x1300: "Address Mark Not Found For Data Field",
	0x1400: "Recorded Entity Not Found",
	0x1401: "Record Not Found",
	0x1402: "Filemark Or Setmark Not Found",
	0x1403: "End-Of-Data Not Found",
	0x1404: "Block Sequence Error",
	0x1405: "Record Not Found - Recommend Reassignment",
	0x1406: "Record Not Found - Data Auto-Reallocated",
	0x1407: "Locate Operation Failure",
	0x1500: "Random Positioning Error",
	0x1501: "Mechanical Positioning Error",
	0x1502: "Positioning Error Detected By Read Of Medium",
	0x1600: "Data Synchronization Mark Error",
	0x1601: "Data Sync Error - Data Rewritten",
	0x1602: "Data Sync Error - Recommend Rewrite",
	0x1603: "Data Sync Error - Data Auto-Reallocated",
	0x1604: "Data Sync Error - Recommend Reassignment",
	0x1700: "Recovered Data With No Error Correction Applied",
	0x1701: "Recovered Data With Retries",
	0x1702: "Recovered Data With Positive Head Offset",
	0x1703: "Recovered Data With Negative Head Offset",
	0x1704: "Recovered Data With Retries And/Or CIRC Applied",
	0x1705: "Recovered Data Using Previous Sector ID",
	0x1706: "Recovered Data Without ECC - Data Auto-Reallocated",
	0x1707: "Recovered Data Without ECC - Recommend Reassignment",
	0x1708: "Recovered Data Without ECC - Recommend Rewrite",
	0x1709: "Recovered Data Without ECC - Data Rewritten",
	0x1800: "Recovered Data With Error Correction Applied",
	0x1801: "Recovered Data With Error Corr. & Retries Applied",
	0x1802: "Recovered Data - Data Auto-Reallocated",
	0x1803: "Recovered Data With CIRC",
	0x1804: "Recovered Data With L-EC",
	0x1805: "Recovered Data - Recommend Reassignment",
	0x1806: "Recovered Data - Recommend Rewrite",
	0x1807: "Recovered Data With ECC - Data Rewritten",
	0x1808: "Recovered Data With Linking",
	0x1900: "Defect List Error",
	0x1901: "Defect List Not Available",
	0x1902: "Defect List Error In Primary List",
	0x1903: "Defect List Error In Grown List",
	0x1A00: "Parameter List Length Error",
	0x1B00: "Synchronous Data Transfer Error",
	0x1C00: "Defect List Not Found",
	0x1C01: "Primary Defect List Not Found",
	0x1C02: "Grown Defect List Not Found",
	0x1D00: "Miscompare During Verify Operation",
	0x1E00: "Recovered ID With ECC Correction",
	0x1F00: "Partial Defect List Transfer",
	0x2000: "Invalid Command Operation Code",
	0x2001: "Access Denied - Initiator Pending-Enrolled",
	0x2002: "Access Denied - No Access Rights",
	0x2003: "Access Denied - Invalid Mgmt ID Key",
	0x2008: "Access Denied - Enrollment Conflict",
	0x2009: "Access Denied - Invalid LU Identifier",
	0x200A: "Access Denied - Invalid Proxy Token",
	0x200B: "Access Denied - ACL LUN Conflict",
	0x2100: "Logical Block Address Out Of Range",
	0x2101: "Invalid Element Address",
	0x2102: "Invalid Address For Write",
	0x2200: "Illegal Function (Use 20 00, 24 00, Or 26 00)",
	0x2400: "Invalid Field In CDB",
	0x2401: "CDB Decryption Error",
	0x2500: "Logical Unit Not Supported",
	0x2600: "Invalid Field In Parameter List",
	0x2601: "Parameter Not Supported",
	0x2602: "Parameter Value Invalid",
	0x2603: "Threshold Parameters Not Supported",
	0x2604: "Invalid Release Of Persistent Reservation",
	0x2605: "Data Decryption Error",
	0x2606: "Too Many Target Descriptors",
	0x2607: "Unsupported Target Descriptor Type Code",
	0x2608: "Too Many Segment Descriptors",
	0x2609: "Unsupported Segment Descriptor Type Code",
	0x260A: "Unexpected Inexact Segment",
	0x260B: "Inline Data Length Exceeded",
	0x260C: "Invalid Operation For Copy Source Or Destination",
	0x260D: "Copy Segment Granularity Violation",
	0x2700: "Write Protected",
	0x2701: "Hardware Write Protected",
	0x2702: "Logical Unit Software Write Protected",
	0x2703: "Associated Write Protect",
	0x2704: "Persistent Write Protect",
	0x2705: "Permanent Write Protect",
	0x2706: "Conditional Write Protect",
	0x2800: "Not Ready To Ready Change, Medium May Have Changed",
	0x2801: "Import Or Export Element Accessed",
	0x2900: "Power On, Reset, Or Bus Device Reset Occurred",
	0x2901: "Power On Occurred",
	0x2902: "SCSI Bus Reset Occurred",
	0x2903: "Bus Device Reset Function Occurred",
	0x2904: "Device Internal Reset",
	0x2905: "Transceiver Mode Changed To Single-Ended",
	0x2906: "Transceiver Mode Changed To LVD",
	0x2907: "I_T Nexus Loss Occurred",
	0x2A00: "Parameters Changed",
	0x2A01: "Mode Parameters Changed",
	0x2A02: "Log Parameters Changed",
	0x2A03: "Reservations Preempted",
	0x2A04: "Reservations Released",
	0x2A05: "Registrations Preempted",
	0x2A06: "Asymmetric Access State Changed",
	0x2A07: "Implicit Asymmetric Access State Transition Failed",
	0x2B00: "Copy Cannot Execute Since Host Cannot Disconnect",
	0x2C00: "Command Sequence Error",
	0x2C01: "Too Many Windows Specified",
	0x2C02: "Invalid Combination Of Windows Specified",
	0x2C03: "Current Program Area Is Not Empty",
	0x2C04: "Current Program Area Is Empty",
	0x2C05: "Illegal Power Condition Request",
	0x2D00: "Overwrite Error On Update In Place",
	0x2F00: "Commands Cleared By Another Initiator",
	0x3000: "Incompatible Medium Installed",
	0x3001: "Cannot Read Medium - Unknown Format",
	0x3002: "Cannot Read Medium - Incompatible Format",
	0x3003: "Cleaning Cartridge Installed",
	0x3004: "Cannot Write Medium - Unknown Format",
	0x3005: "Cannot Write Medium - Incompatible Format",
	0x3006: "Cannot Format Medium - Incompatible Medium",
	0x3007: "Cleaning Failure",
	0x3008: "Cannot Write - Application Code Mismatch",
	0x3009: "Current Session Not Fixated For Append",
	0x300A: "Cleaning Request Rejected",
	0x300C: "WORM Medium, Overwrite Attempted",
	0x3010: "Medium Not Formatted",
	0x3100: "Medium Format Corrupted",
	0x3101: "Format Command Failed",
	0x3102: "Zoned Formatting Failed Due To Spare Linking",
	0x3200: "No Defect Spare Location Available",
	0x3201: "Defect List Update Failure",
	0x3300: "Tape Length Error",
	0x3400: "Enclosure Failure",
	0x3500: "Enclosure Services Failure",
	0x3501: "Unsupported Enclosure Function",
	0x3502: "Enclosure Services Unavailable",
	0x3503: "Enclosure Services Transfer Failure",
	0x3504: "Enclosure Services Transfer Refused",
	0x3600: "Ribbon, Ink, Or Toner Failure",
	0x3700: "Rounded Parameter",
	0x3800: "Event Status Notification",
	0x3802: "ESN - Power Management Class Event",
	0x3804: "ESN - Media Class Event",
	0x3806: "ESN - Device Busy Class Event",
	0x3900: "Saving Parameters Not Supported",
	0x3A00: "Medium Not Present",
	0x3A01: "Medium Not Present - Tray Closed",
	0x3A02: "Medium Not Present - Tray Open",
	0x3A03: "Medium Not Present - Loadable",
	0x3A04: "Medium Not Present - Medium Auxiliary Memory Accessible",
	0x3B00: "Sequential Positioning Error",
	0x3B01: "Tape Position Error At Beginning-Of-Medium",
	0x3B02: "Tape Position Error At End-Of-Medium",
	0x3B03: "Tape Or Electronic Vertical Forms Unit Not Ready",
	0x3B04: "Slew Failure",
	0x3B05: "Paper Jam",
	0x3B06: "Failed To Sense Top-Of-Form",
	0x3B07: "Failed To Sense Bottom-Of-Form",
	0x3B08: "Reposition Error",
	0x3B09: "Read Past End Of Medium",
	0x3B0A: "Read Past Beginning Of Medium",
	0x3B0B: "Position Past End Of Medium",
	0x3B0C: "Position Past Beginning Of Medium",
	0x3B0D: "Medium Destination Element Full",
	0x3B0E: "Medium Source Element Empty",
	0x3B0F: "End Of Medium Reached",
	0x3B11: "Medium Magazine Not Accessible",
	0x3B12: "Medium Magazine Removed",
	0x3B13: "Medium Magazine Inserted",
	0x3B14: "Medium Magazine Locked",
	0x3B15: "Medium Magazine Unlocked",
	0x3B16: "Mechanical Positioning Or Changer Error",
	0x3D00: "Invalid Bits In Identify Message",
	0x3E00: "Logical Unit Has Not Self-Configured Yet",
	0x3E01: "Logical Unit Failure",
	0x3E02: "Timeout On Logical Unit",
	0x3E03: "Logical Unit Failed Self-Test",
	0x3E04: "Logical Unit Unable To Update Self-Test Log",
	0x3F00: "Target Operating Conditions Have Changed",
	0x3F01: "Microcode Has Been Changed",
	0x3F02: "Changed Operating Definition",
	0x3F03: "Inquiry Data Has Changed",
	0x3F04: "Component Device Attached",
	0x3F05: "Device Identifier Changed",
	0x3F06: "Redundancy Group Created Or Modified",
	0x3F07: "Redundancy Group Deleted",
	0x3F08: "Spare Created Or Modified",
	0x3F09: "Spare Deleted",
	0x3F0A: "Volume Set Created Or Modified",
	0x3F0B: "Volume Set Deleted",
	0x3F0C: "Volume Set Deassigned",
	0x3F0D: "Volume Set Reassigned",
	0x3F0E: "Reported LUNs Data Has Changed",
	0x3F0F: "Echo Buffer Overwritten",
	0x3F10: "Medium Loadable",
	0x3F11: "Medium Auxiliary Memory Accessible",
	0x4000: "RAM Failure (Should Use 40 NN)",
	0x4100: "Data Path Failure (Should Use 40 NN)",
	0x4200: "Power-On Or Self-Test Failure (Should Use 40 NN)",
	0x4300: "Message Error",
	0x4400: "Internal Target Failure",
	0x4500: "Select Or Reselect Failure",
	0x4600: "Unsuccessful Soft Reset",
	0x4700: "SCSI Parity Error",
	0x4701: "Data Phase CRC Error Detected",
	0x4702: "SCSI Parity Error Detected During ST Data Phase",
	0x4703: "Information Unit CRC Error Detected",
	0x4704: "Asynchronous Information Protection Error Detected",
	0x4705: "Protocol Service CRC Error",
	0x4800: "Initiator Detected Error Message Received",
	0x4900: "Invalid Message Error",
	0x4A00: "Command Phase Error",
	0x4B00: "Data Phase Error",
	0x4B01: "Invalid Target Port Transfer Tag Received",
	0x4B02: "Too Much Write Data",
	0x4B03: "ACK/NAK Timeout",
	0x4B04: "NAK Received",
	0x4B05: "Data Offset Error",
	0x4B06: "Initiator Response Timeout",
	0x4C00: "Logical Unit Failed Self-Configuration",
	0x4E00: "Overlapped Commands Attempted",
	0x5000: "Write Append Error",
	0x5001: "Write Append Position Error",
	0x5002: "Position Error Related To Timing",
	0x5100: "Erase Failure",
	0x5200: "Cartridge Fault",
	0x5300: "Media Load Or Eject Failed",
	0x5301: "Unload Tape Failure",
	0x5302: "Medium Removal Prevented",
	0x5400: "SCSI To Host System Interface Failure",
	0x5500: "System Resource Failure",
	0x5501: "System Buffer Full",
	0x5502: "Insufficient Reservation Resources",
	0x5503: "Insufficient Resources",
	0x5504: "Insufficient Registration Resources",
	0x5A00: "Operator Request Or State Change Input",
	0x5A01: "Operator Medium Removal Request",
	0x5A02: "Operator Selected Write Protect",
	0x5A03: "Operator Selected Write Permit",
	0x5B00: "Log Exception",
	0x5B01: "Threshold Condition Met",
	0x5B02: "Log Counter At Maximum",
	0x5B03: "Log List Codes Exhausted",
	0x5C00: "RPL Status Change",
	0x5C01: "Spindles Synchronized",
	0x5C02: "Spindles Not Synchronized",
	0x5D00: "Failure Prediction Threshold Exceeded",
	0x5D01: "Media Failure Prediction Threshold Exceeded",
	0x5D02: "Logical Unit Failure Prediction Threshold Exceeded",
	0x5D03: "Spare Area Exhaustion Prediction Threshold Exceeded",
	0x5DFF: "Failure Prediction Threshold Exceeded (False)",
	0x5E00: "Low Power Condition On",
	0x5E01: "Idle Condition Activated By Timer",
	0x5E02: "Standby Condition Activated By Timer",
	0x5E03: "Idle Condition Activated By Command",
	0x5E04: "Standby Condition Activated By Command",
	0x6000: "Lamp Failure",
	0x6100: "Video Acquisition Error",
	0x6101: "Unable To Acquire Video",
	0x6102: "Out Of Focus",
	0x6200: "Scan Head Positioning Error",
	0x6300: "End Of User Area Encountered On This Track",
	0x6301: "Packet Does Not Fit In Available Space",
	0x6400: "Illegal Mode For This Track",
	0x6401: "Invalid Packet Size",
	0x6500: "Voltage Fault",
	0x6600: "Automatic Document Feeder Cover Up",
	0x6700: "Configuration Failure",
	0x6701: "Configuration Of Incapable Logical Units Failed",
	0x6702: "Add Logical Unit Failed",
	0x6703: "Modification Of Logical Unit Failed",
	0x6704: "Exchange Of Logical Unit Failed",
	0x6705: "Remove Of Logical Unit Failed",
	0x6706: "Attachment Of Logical Unit Failed",
	0x6707: "Creation Of Logical Unit Failed",
	0x6800: "Logical Unit Not Configured",
	0x6900: "Data Loss On Logical Unit",
	0x6901: "Multiple Logical Unit Failures",
	0x6902: "Parity/Data Mismatch",
	0x6A00: "Informational, Refer To Log",
	0x6B00: "State Change Has Occurred",
	0x6B01: "Redundancy Level Got Better",
	0x6B02: "Redundancy Level Got Worse",
	0x6C00: "Rebuild Failure Occurred",
	0x6D00: "Recalculate Failure Occurred",
	0x6E00: "Command To Logical Unit Failed",
	0x6F00: "Copy Protection Key Exchange Failure - Authentication Failure",
	0x6F01: "Copy Protection Key Exchange Failure - Key Not Present",
	0x6F02: "Copy Protection Key Exchange Failure - Key Not Established",
	0x6F03: "Read Of Scrambled Sector Without Authentication",
	0x6F04: "Media Region Code Is Mismatched To Logical Unit Region",
	0x6F05: "Drive Region Must Be Permanent/Region Reset Count Error",
	0x7100: "Decompression Exception Long Algorithm ID",
	0x7200: "Session Fixation Error",
	0x7201: "Session Fixation Error Writing Lead-In",
	0x7202: "Session Fixation Error Writing Lead-Out",
	0x7203: "Session Fixation Error - Incomplete Track In Session",
	0x7204: "Empty Or Partially Written Reserved Track",
	0x7205: "No More Track Reservations Allowed",
	0x7300: "CD Control Error",
	0x7301: "Power Calibration Area Almost Full",
	0x7302: "Power Calibration Area Is Full",
	0x7303: "Power Calibration Area Error",
	0x7304: "Program Memory Area Update Failure",
	0x7305: "Program Memory Area Is Full",
	0x7306: "RMA/PMA Is Full",
}
